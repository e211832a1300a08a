// Package privacy perturbs photo coordinates before they are published.
// The perturbation is deterministic per photo: the same photo fuzzes to
// the same point on every run, so repeated syncs produce byte-identical
// artifacts.
package privacy

import (
	"hash/fnv"
	"math"
	"math/rand"
)

const earthRadiusMeters = 6371000.0

// SeedFor derives the fuzz seed from the photo's stable id. Keyed on
// the id alone: re-ingesting a photo whose coordinates did not change
// reproduces the same fuzzed point.
func SeedFor(id string) int64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return int64(h.Sum64())
}

// Fuzz returns a point sampled uniformly from the disk of radiusMeters
// around (lat, lon). Sampling the radius as r = R*sqrt(u) keeps the
// distribution uniform over area rather than clustering at the center.
func Fuzz(lat, lon, radiusMeters float64, seed int64) (float64, float64) {
	rng := rand.New(rand.NewSource(seed))

	r := radiusMeters * math.Sqrt(rng.Float64())
	theta := 2 * math.Pi * rng.Float64()

	dLat := (r * math.Cos(theta)) / earthRadiusMeters * (180 / math.Pi)
	dLon := (r * math.Sin(theta)) / (earthRadiusMeters * math.Cos(lat*math.Pi/180)) * (180 / math.Pi)

	return lat + dLat, lon + dLon
}

// DistanceMeters returns the haversine distance between two points.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}
