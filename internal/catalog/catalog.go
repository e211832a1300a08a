package catalog

import (
	"context"
	"time"
)

// Item is one photo in the remote album, normalized for a single sync
// run. Immutable once fetched.
type Item struct {
	// ID is the stable identifier the remote service assigns to the photo.
	ID string
	// Checksum changes iff the remote content changed.
	Checksum string
	// Caption is the user-supplied description, if any.
	Caption string
	// CreatedAt is when the remote service says the photo was created.
	CreatedAt time.Time
	// DownloadURL resolves to the photo bytes via the fetcher.
	DownloadURL string
	// OriginalFilename is the name the photo was uploaded with.
	OriginalFilename string
	// ContentType of the selected rendition, e.g. "image/jpeg".
	ContentType string
	Width       int
	Height      int
}

// Catalog is the read-only view of the remote album for one sync run.
type Catalog struct {
	Name  string
	Items map[string]*Item
}

func NewCatalog(name string) *Catalog {
	return &Catalog{
		Name:  name,
		Items: make(map[string]*Item),
	}
}

func (c *Catalog) Add(item *Item) {
	c.Items[item.ID] = item
}

func (c *Catalog) Len() int {
	return len(c.Items)
}

// Fetcher is the remote-collection collaborator. Implementations own
// transport concerns: auth, pagination, retries.
type Fetcher interface {
	// FetchCatalog returns the normalized list of remote items for the album.
	FetchCatalog(ctx context.Context, albumURL string) (*Catalog, error)
	// ResolveBytes downloads the content behind an item's DownloadURL.
	ResolveBytes(ctx context.Context, downloadURL string) ([]byte, error)
}

// ForURL picks a fetcher for the album URL. Test and example URLs get
// the deterministic mock so local runs never hit the network.
func ForURL(albumURL string) Fetcher {
	if IsMockURL(albumURL) {
		return NewMockFetcher()
	}
	return NewWebStreamFetcher()
}
