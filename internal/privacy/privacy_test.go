package privacy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuzzDeterministic(t *testing.T) {
	seed := SeedFor("photo-abc")

	lat1, lon1 := Fuzz(41.8781, -87.6298, 100, seed)
	lat2, lon2 := Fuzz(41.8781, -87.6298, 100, seed)

	assert.Equal(t, lat1, lat2)
	assert.Equal(t, lon1, lon2)
}

func TestSeedForDiffersPerPhoto(t *testing.T) {
	assert.NotEqual(t, SeedFor("photo-a"), SeedFor("photo-b"))
	assert.Equal(t, SeedFor("photo-a"), SeedFor("photo-a"))
}

func TestFuzzContainment(t *testing.T) {
	points := []struct {
		lat, lon float64
	}{
		{41.8781, -87.6298}, // Chicago
		{64.1466, -21.9426}, // Reykjavík, high latitude
		{-33.8688, 151.2093},
		{0.0, 0.0},
	}
	radii := []float64{10, 100, 1000}

	for _, p := range points {
		for _, radius := range radii {
			for i := 0; i < 50; i++ {
				seed := SeedFor(fmt.Sprintf("photo-%d", i))
				flat, flon := Fuzz(p.lat, p.lon, radius, seed)
				dist := DistanceMeters(p.lat, p.lon, flat, flon)
				assert.LessOrEqual(t, dist, radius*1.0001,
					"fuzzed point %.6f,%.6f escaped radius %v at origin %.4f,%.4f",
					flat, flon, radius, p.lat, p.lon)
			}
		}
	}
}

func TestFuzzActuallyMoves(t *testing.T) {
	moved := 0
	for i := 0; i < 20; i++ {
		seed := SeedFor(fmt.Sprintf("p%d", i))
		flat, flon := Fuzz(41.8781, -87.6298, 100, seed)
		if flat != 41.8781 || flon != -87.6298 {
			moved++
		}
	}
	// a zero offset is astronomically unlikely for all seeds
	assert.Greater(t, moved, 15)
}

func TestDistanceMeters(t *testing.T) {
	// same point
	assert.InDelta(t, 0, DistanceMeters(41.0, -87.0, 41.0, -87.0), 1e-9)

	// one degree of latitude is roughly 111 km
	d := DistanceMeters(41.0, -87.0, 42.0, -87.0)
	assert.InDelta(t, 111_195, d, 500)
}
