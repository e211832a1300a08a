// Package index owns the persisted mapping from photo id to last-known
// metadata. An Index is loaded once per sync run, mutated in memory,
// and rewritten atomically at the end of the run.
package index

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shutterbox/shutterbox/internal/geocode"
	"github.com/shutterbox/shutterbox/internal/utils"
)

// ErrCorrupt marks an index file that exists but cannot be parsed.
// Loading must fail fast in that case: treating a corrupt index as empty
// would re-add every photo on the next sync.
var ErrCorrupt = errors.New("index file is corrupt")

// Metadata carries the EXIF-derived fields of a record. Every field is
// individually optional.
type Metadata struct {
	CameraMake   string     `yaml:"camera_make,omitempty"`
	CameraModel  string     `yaml:"camera_model,omitempty"`
	TakenAt      *time.Time `yaml:"taken_at,omitempty"`
	ISO          *int       `yaml:"iso,omitempty"`
	ExposureTime string     `yaml:"exposure_time,omitempty"`
	FNumber      *float64   `yaml:"f_number,omitempty"`
	FocalLength  *float64   `yaml:"focal_length,omitempty"`
}

// Location keeps both the true and the published coordinates. The
// original pair never leaves the index document.
type Location struct {
	Latitude        float64        `yaml:"latitude"`
	Longitude       float64        `yaml:"longitude"`
	FuzzedLatitude  float64        `yaml:"fuzzed_latitude"`
	FuzzedLongitude float64        `yaml:"fuzzed_longitude"`
	Place           *geocode.Place `yaml:"place,omitempty"`
}

// Record is the last-known state of one successfully ingested photo.
// Records are replaced whole; no partial field mutation is visible
// outside a single ingestion.
type Record struct {
	ID               string     `yaml:"id"`
	Checksum         string     `yaml:"checksum"`
	ContentHash      string     `yaml:"content_hash,omitempty"`
	Title            string     `yaml:"title"`
	Caption          string     `yaml:"caption,omitempty"`
	CreatedAt        time.Time  `yaml:"created_at"`
	SyncedAt         time.Time  `yaml:"synced_at"`
	OriginalFilename string     `yaml:"original_filename,omitempty"`
	ContentType      string     `yaml:"content_type,omitempty"`
	Width            int        `yaml:"width,omitempty"`
	Height           int        `yaml:"height,omitempty"`
	Metadata         *Metadata  `yaml:"metadata,omitempty"`
	Location         *Location  `yaml:"location,omitempty"`
	ArtifactPaths    []string   `yaml:"artifact_paths,omitempty"`
}

// Gallery is the persisted collection-level state of a gallery target.
// The ID is generated once and never regenerated.
type Gallery struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Slug        string    `yaml:"slug"`
	Description string    `yaml:"description,omitempty"`
	Photos      []string  `yaml:"photos"`
	CreatedAt   time.Time `yaml:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at"`
}

// AddPhoto appends the id if not already present, preserving order.
func (g *Gallery) AddPhoto(id string) {
	for _, existing := range g.Photos {
		if existing == id {
			return
		}
	}
	g.Photos = append(g.Photos, id)
	g.UpdatedAt = time.Now().UTC()
}

func (g *Gallery) RemovePhoto(id string) {
	for i, existing := range g.Photos {
		if existing == id {
			g.Photos = append(g.Photos[:i], g.Photos[i+1:]...)
			g.UpdatedAt = time.Now().UTC()
			return
		}
	}
}

// Index is the full persisted document for one output target.
type Index struct {
	LastUpdated time.Time           `yaml:"last_updated"`
	Photos      map[string]*Record  `yaml:"photos"`
	Galleries   map[string]*Gallery `yaml:"galleries,omitempty"`
}

func New() *Index {
	return &Index{
		LastUpdated: time.Now().UTC(),
		Photos:      make(map[string]*Record),
		Galleries:   make(map[string]*Gallery),
	}
}

// Load reads the index document at path. A missing file yields a fresh
// empty index; an unparseable file yields ErrCorrupt.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", path, err)
	}

	var idx Index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if idx.Photos == nil {
		idx.Photos = make(map[string]*Record)
	}
	if idx.Galleries == nil {
		idx.Galleries = make(map[string]*Gallery)
	}
	return &idx, nil
}

// Save atomically rewrites the index document.
func (idx *Index) Save(path string) error {
	idx.LastUpdated = time.Now().UTC()

	data, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := utils.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("persist index %s: %w", path, err)
	}
	return nil
}

func (idx *Index) Get(id string) (*Record, bool) {
	rec, ok := idx.Photos[id]
	return rec, ok
}

// Upsert replaces the record for rec.ID.
func (idx *Index) Upsert(rec *Record) {
	idx.Photos[rec.ID] = rec
}

// Remove drops the record and detaches the id from every gallery.
// Returns the removed record, if any.
func (idx *Index) Remove(id string) *Record {
	rec, ok := idx.Photos[id]
	if !ok {
		return nil
	}
	for _, g := range idx.Galleries {
		g.RemovePhoto(id)
	}
	delete(idx.Photos, id)
	return rec
}

func (idx *Index) Len() int {
	return len(idx.Photos)
}

// GalleryByName finds a gallery by display name.
func (idx *Index) GalleryByName(name string) *Gallery {
	for _, g := range idx.Galleries {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// GalleryPhotos returns the records for a gallery's ordered photo list,
// skipping ids with no record.
func (idx *Index) GalleryPhotos(galleryID string) []*Record {
	g, ok := idx.Galleries[galleryID]
	if !ok {
		return nil
	}
	records := make([]*Record, 0, len(g.Photos))
	for _, id := range g.Photos {
		if rec, ok := idx.Photos[id]; ok {
			records = append(records, rec)
		}
	}
	return records
}
