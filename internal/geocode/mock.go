package geocode

import (
	"context"
	"fmt"
)

// MockGeocoder resolves a handful of well-known coordinate ranges and
// labels everything else by quadrant. Used by tests and offline runs.
type MockGeocoder struct{}

type mockRegion struct {
	latMin, latMax float64
	lonMin, lonMax float64
	place          Place
}

var mockRegions = []mockRegion{
	{41.5, 42.0, -88.0, -87.5, Place{City: "Chicago", Region: "Illinois", Country: "United States"}},
	{40.5, 41.0, -74.5, -73.5, Place{City: "New York", Region: "New York", Country: "United States"}},
	{37.5, 38.0, -123.0, -122.0, Place{City: "San Francisco", Region: "California", Country: "United States"}},
	{51.0, 52.0, -0.5, 0.5, Place{City: "London", Region: "England", Country: "United Kingdom"}},
}

func (MockGeocoder) ReverseGeocode(_ context.Context, lat, lon float64) (*Place, error) {
	for _, r := range mockRegions {
		if lat > r.latMin && lat < r.latMax && lon > r.lonMin && lon < r.lonMax {
			place := r.place
			return &place, nil
		}
	}

	ns := "North"
	if lat < 0 {
		ns = "South"
	}
	ew := "East"
	if lon < 0 {
		ew = "West"
	}
	return &Place{Label: fmt.Sprintf("%s %s at %.4f, %.4f", ns, ew, lat, lon)}, nil
}
