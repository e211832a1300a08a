package index

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(id string) *Record {
	return &Record{
		ID:               id,
		Checksum:         "checksum_" + id,
		ContentHash:      "hash_" + id,
		Title:            "Photo " + id,
		CreatedAt:        time.Date(2024, time.June, 14, 10, 0, 0, 0, time.UTC),
		SyncedAt:         time.Now().UTC(),
		OriginalFilename: id + ".jpg",
		ContentType:      "image/jpeg",
		Width:            1920,
		Height:           1080,
	}
}

func TestLoadMissingFileCreatesEmpty(t *testing.T) {
	idx, err := Load(filepath.Join(t.TempDir(), "nope", "index.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestLoadCorruptFailsFast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.yaml")
	require.NoError(t, os.WriteFile(path, []byte("photos: [not: valid: yaml"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "index.yaml")

	idx := New()
	rec := testRecord("photo1")
	iso := 200
	fnum := 2.8
	taken := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	rec.Metadata = &Metadata{
		CameraMake:   "Apple",
		CameraModel:  "iPhone 15 Pro",
		TakenAt:      &taken,
		ISO:          &iso,
		ExposureTime: "1/120",
		FNumber:      &fnum,
	}
	rec.Location = &Location{
		Latitude:        41.8781,
		Longitude:       -87.6298,
		FuzzedLatitude:  41.8785,
		FuzzedLongitude: -87.6301,
	}
	idx.Upsert(rec)
	idx.Upsert(testRecord("photo2"))

	require.NoError(t, idx.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())

	got, ok := loaded.Get("photo1")
	require.True(t, ok)
	assert.Equal(t, "checksum_photo1", got.Checksum)
	require.NotNil(t, got.Metadata)
	assert.Equal(t, "iPhone 15 Pro", got.Metadata.CameraModel)
	require.NotNil(t, got.Metadata.ISO)
	assert.Equal(t, 200, *got.Metadata.ISO)
	require.NotNil(t, got.Location)
	assert.InDelta(t, 41.8781, got.Location.Latitude, 1e-9)
}

func TestRemoveDetachesFromGalleries(t *testing.T) {
	idx := New()
	idx.Upsert(testRecord("a"))
	idx.Upsert(testRecord("b"))

	g := &Gallery{ID: "g1", Name: "Trip", Slug: "trip", CreatedAt: time.Now().UTC()}
	g.AddPhoto("a")
	g.AddPhoto("b")
	idx.Galleries[g.ID] = g

	removed := idx.Remove("a")
	require.NotNil(t, removed)
	assert.Equal(t, "a", removed.ID)
	assert.Equal(t, []string{"b"}, g.Photos)

	assert.Nil(t, idx.Remove("a"), "second remove is a no-op")
}

func TestGalleryAddPhotoIsIdempotent(t *testing.T) {
	g := &Gallery{ID: "g1", Name: "Trip"}
	g.AddPhoto("a")
	g.AddPhoto("a")
	g.AddPhoto("b")
	assert.Equal(t, []string{"a", "b"}, g.Photos)
}

func TestGalleryPhotosPreservesOrder(t *testing.T) {
	idx := New()
	idx.Upsert(testRecord("c"))
	idx.Upsert(testRecord("a"))

	g := &Gallery{ID: "g1", Name: "Trip"}
	g.AddPhoto("c")
	g.AddPhoto("missing")
	g.AddPhoto("a")
	idx.Galleries[g.ID] = g

	records := idx.GalleryPhotos("g1")
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
}

func TestAcquireLockConflict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.yaml")

	lock, err := Acquire(path)
	require.NoError(t, err)
	defer lock.Unlock()

	_, err = Acquire(path)
	assert.Error(t, err, "second lock on the same index must fail")
}
