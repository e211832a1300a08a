package geocode

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/imroc/req/v3"

	"github.com/shutterbox/shutterbox/internal/version"
)

const (
	nominatimURL = "https://nominatim.openstreetmap.org/reverse"

	cacheSize = 512
	cacheTTL  = 24 * time.Hour
)

// NominatimGeocoder resolves coordinates against the OpenStreetMap
// Nominatim API. Results are cached on rounded coordinates so photos
// shot in the same spot cost one lookup.
type NominatimGeocoder struct {
	client *req.Client
	cache  *expirable.LRU[string, *Place]
}

func NewNominatimGeocoder() *NominatimGeocoder {
	client := req.C().
		SetUserAgent("shutterbox/" + version.Version).
		SetTimeout(15 * time.Second)

	return &NominatimGeocoder{
		client: client,
		cache:  expirable.NewLRU[string, *Place](cacheSize, nil, cacheTTL),
	}
}

type nominatimResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
	DisplayName string `json:"display_name"`
	ErrMessage  string `json:"error"`
}

func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (*Place, error) {
	key := cacheKey(lat, lon)
	if place, ok := g.cache.Get(key); ok {
		return place, nil
	}

	var out nominatimResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":    fmt.Sprintf("%.6f", lat),
			"lon":    fmt.Sprintf("%.6f", lon),
			"format": "jsonv2",
			"zoom":   "10",
		}).
		SetSuccessResult(&out).
		Get(nominatimURL)
	if err != nil {
		return nil, &Error{Lat: lat, Lon: lon, Err: err}
	}
	if resp.IsErrorState() {
		return nil, &Error{Lat: lat, Lon: lon, Err: fmt.Errorf("http %d", resp.GetStatusCode())}
	}
	if out.ErrMessage != "" {
		return nil, &Error{Lat: lat, Lon: lon, Err: fmt.Errorf("%s", out.ErrMessage)}
	}

	city := out.Address.City
	if city == "" {
		city = out.Address.Town
	}
	if city == "" {
		city = out.Address.Village
	}

	place := &Place{
		City:    city,
		Region:  out.Address.State,
		Country: out.Address.Country,
		Label:   out.DisplayName,
	}
	g.cache.Add(key, place)
	return place, nil
}

// Coordinates within ~11m share a cache entry.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lon)
}
