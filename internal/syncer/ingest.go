package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shutterbox/shutterbox/internal/catalog"
	"github.com/shutterbox/shutterbox/internal/exifmeta"
	"github.com/shutterbox/shutterbox/internal/geocode"
	"github.com/shutterbox/shutterbox/internal/index"
	"github.com/shutterbox/shutterbox/internal/privacy"
	"github.com/shutterbox/shutterbox/internal/utils"
)

// Ingestor turns one remote item into an index record plus the photo
// bytes. It performs only network reads; writing artifacts is the
// bundle writer's job, so a failed ingestion never leaves a half
// written bundle behind.
type Ingestor struct {
	Fetcher    catalog.Fetcher
	Geocoder   geocode.Geocoder
	FuzzMeters float64
	Log        *slog.Logger
}

// Ingest downloads the item, hashes it, extracts metadata, and applies
// the location privacy transform. A geocode failure only drops the
// place name; a download failure fails the whole photo.
func (ing *Ingestor) Ingest(ctx context.Context, item *catalog.Item) (*index.Record, []byte, error) {
	data, err := ing.Fetcher.ResolveBytes(ctx, item.DownloadURL)
	if err != nil {
		return nil, nil, fmt.Errorf("download: %w", err)
	}

	rec := &index.Record{
		ID:               item.ID,
		Checksum:         item.Checksum,
		ContentHash:      utils.ContentHash(data),
		Caption:          item.Caption,
		CreatedAt:        item.CreatedAt,
		SyncedAt:         time.Now().UTC(),
		OriginalFilename: item.OriginalFilename,
		ContentType:      item.ContentType,
		Width:            item.Width,
		Height:           item.Height,
	}

	meta := exifmeta.Extract(data)
	if meta != nil {
		rec.Metadata = &index.Metadata{
			CameraMake:   meta.CameraMake,
			CameraModel:  meta.CameraModel,
			TakenAt:      meta.TakenAt,
			ISO:          meta.ISO,
			ExposureTime: meta.ExposureTime,
			FNumber:      meta.FNumber,
			FocalLength:  meta.FocalLength,
		}
		if meta.HasCoordinates() {
			rec.Location = ing.locate(ctx, item.ID, *meta.Latitude, *meta.Longitude)
		}
	}

	rec.Title = titleFor(item, meta)
	return rec, data, nil
}

// locate fuzzes the coordinates and resolves a place name. The fuzz
// seed comes from the photo id alone, so re-ingesting a photo whose
// coordinates did not change reproduces the same published point.
func (ing *Ingestor) locate(ctx context.Context, id string, lat, lon float64) *index.Location {
	flat, flon := privacy.Fuzz(lat, lon, ing.FuzzMeters, privacy.SeedFor(id))
	loc := &index.Location{
		Latitude:        lat,
		Longitude:       lon,
		FuzzedLatitude:  flat,
		FuzzedLongitude: flon,
	}

	if ing.Geocoder != nil {
		place, err := ing.Geocoder.ReverseGeocode(ctx, lat, lon)
		if err != nil {
			ing.log().Warn("reverse geocode failed", "photo", id, "error", err)
		} else {
			loc.Place = place
		}
	}
	return loc
}

func (ing *Ingestor) log() *slog.Logger {
	if ing.Log != nil {
		return ing.Log
	}
	return slog.Default()
}

// titleFor derives the record title. A remote caption wins verbatim;
// otherwise the title is synthesized from the best available date.
func titleFor(item *catalog.Item, meta *exifmeta.Metadata) string {
	if strings.TrimSpace(item.Caption) != "" {
		return item.Caption
	}
	ts := item.CreatedAt
	if meta != nil && meta.TakenAt != nil {
		ts = *meta.TakenAt
	}
	return "Photo taken on " + ts.Format("January 2, 2006")
}
