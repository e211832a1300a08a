package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForURLPicksMock(t *testing.T) {
	assert.IsType(t, &MockFetcher{}, ForURL("https://www.icloud.com/sharedalbum/#test"))
	assert.IsType(t, &WebStreamFetcher{}, ForURL("https://www.icloud.com/sharedalbum/#B0abc"))
}

func TestMockFetchCatalog(t *testing.T) {
	fetcher := NewMockFetcher()

	cat, err := fetcher.FetchCatalog(context.Background(), "https://www.icloud.com/sharedalbum/#test")
	require.NoError(t, err)
	assert.Equal(t, "Mock Test Album", cat.Name)
	assert.Equal(t, 3, cat.Len())

	item := cat.Items["mock1"]
	require.NotNil(t, item)
	assert.Equal(t, "Mock Photo 1", item.Caption)
	assert.Equal(t, "mock_checksum_1", item.Checksum)

	_, err = fetcher.FetchCatalog(context.Background(), "https://real.album/url")
	assert.Error(t, err)
}

func TestMockResolveBytes(t *testing.T) {
	fetcher := NewMockFetcher()
	fetcher.FailBytes = map[string]bool{"https://example.com/broken.jpg": true}

	data, err := fetcher.ResolveBytes(context.Background(), "https://example.com/mock1.jpg")
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	_, err = fetcher.ResolveBytes(context.Background(), "https://example.com/broken.jpg")
	require.Error(t, err)

	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
}
