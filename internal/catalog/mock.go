package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"
)

var mockURLIndicators = []string{"#test", "#custom", "#example", "example.com"}

// IsMockURL reports whether the album URL should resolve against the
// in-memory mock instead of the network.
func IsMockURL(albumURL string) bool {
	for _, indicator := range mockURLIndicators {
		if strings.Contains(albumURL, indicator) {
			return true
		}
	}
	return false
}

// MockFetcher serves a fixed catalog and placeholder bytes. Used by
// tests and by runs against test/example album URLs.
type MockFetcher struct {
	// Catalog overrides the default mock album when set.
	Catalog *Catalog
	// FailBytes lists download URLs whose ResolveBytes should fail.
	FailBytes map[string]bool
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{}
}

func (m *MockFetcher) FetchCatalog(_ context.Context, albumURL string) (*Catalog, error) {
	if m.Catalog != nil {
		return m.Catalog, nil
	}
	if !IsMockURL(albumURL) {
		return nil, &FetchError{Op: "catalog", URL: albumURL, Err: ErrInvalidURL}
	}
	return defaultMockCatalog(), nil
}

func (m *MockFetcher) ResolveBytes(_ context.Context, downloadURL string) ([]byte, error) {
	if m.FailBytes[downloadURL] {
		return nil, &FetchError{Op: "bytes", URL: downloadURL, Err: fmt.Errorf("simulated download failure")}
	}
	return []byte("PLACEHOLDER IMAGE CONTENT " + downloadURL), nil
}

func defaultMockCatalog() *Catalog {
	created := time.Date(2024, time.June, 14, 10, 30, 0, 0, time.UTC)
	cat := NewCatalog("Mock Test Album")
	cat.Add(&Item{
		ID:               "mock1",
		Checksum:         "mock_checksum_1",
		Caption:          "Mock Photo 1",
		CreatedAt:        created,
		DownloadURL:      "https://example.com/mock1.jpg",
		OriginalFilename: "mock1.jpg",
		ContentType:      "image/jpeg",
		Width:            1200,
		Height:           800,
	})
	cat.Add(&Item{
		ID:               "mock2",
		Checksum:         "mock_checksum_2",
		CreatedAt:        created.Add(24 * time.Hour),
		DownloadURL:      "https://example.com/mock2.jpg",
		OriginalFilename: "mock2.jpg",
		ContentType:      "image/jpeg",
		Width:            1920,
		Height:           1080,
	})
	cat.Add(&Item{
		ID:               "mock3",
		Checksum:         "mock_checksum_3",
		CreatedAt:        created.Add(48 * time.Hour),
		DownloadURL:      "https://example.com/mock3.png",
		OriginalFilename: "photo_with_no_caption.png",
		ContentType:      "image/png",
		Width:            800,
		Height:           600,
	})
	return cat
}
