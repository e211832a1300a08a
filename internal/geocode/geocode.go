// Package geocode maps coordinates to human-readable place names.
// Lookups are best-effort collaborators: a failed lookup never blocks
// photo ingestion, callers simply omit the location fields.
package geocode

import (
	"context"
	"fmt"
	"strings"
)

// Place is a reverse-geocoded location.
type Place struct {
	City    string `yaml:"city,omitempty"`
	Region  string `yaml:"region,omitempty"`
	Country string `yaml:"country,omitempty"`
	// Label is a preformatted fallback used when no components resolved.
	Label string `yaml:"label,omitempty"`
}

// Format renders "City, Region, Country", omitting absent components.
// Falls back to the label when nothing resolved.
func (p *Place) Format() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.City, p.Region, p.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return p.Label
	}
	return strings.Join(parts, ", ")
}

// Error wraps a reverse-geocoding failure.
type Error struct {
	Lat, Lon float64
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("reverse geocode (%.4f, %.4f): %v", e.Lat, e.Lon, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Geocoder is the reverse-geocoding collaborator.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (*Place, error)
}
