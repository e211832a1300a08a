package geocode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceFormat(t *testing.T) {
	tests := []struct {
		name  string
		place Place
		want  string
	}{
		{"all components", Place{City: "Chicago", Region: "Illinois", Country: "United States"}, "Chicago, Illinois, United States"},
		{"missing region", Place{City: "London", Country: "United Kingdom"}, "London, United Kingdom"},
		{"country only", Place{Country: "Iceland"}, "Iceland"},
		{"label fallback", Place{Label: "North West at 0.0000, -10.0000"}, "North West at 0.0000, -10.0000"},
		{"empty", Place{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.place.Format())
		})
	}
}

func TestMockGeocoderKnownCity(t *testing.T) {
	place, err := MockGeocoder{}.ReverseGeocode(context.Background(), 41.8781, -87.6298)
	require.NoError(t, err)
	assert.Equal(t, "Chicago, Illinois, United States", place.Format())
}

func TestMockGeocoderQuadrantFallback(t *testing.T) {
	place, err := MockGeocoder{}.ReverseGeocode(context.Background(), -10, 10)
	require.NoError(t, err)
	assert.Equal(t, "South East at -10.0000, 10.0000", place.Format())
	assert.Empty(t, place.City)
}

func TestCacheKeyRounding(t *testing.T) {
	assert.Equal(t, cacheKey(41.87811, -87.62981), cacheKey(41.87814, -87.62983))
	assert.NotEqual(t, cacheKey(41.8781, -87.6298), cacheKey(41.8782, -87.6298))
}
