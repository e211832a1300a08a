package syncer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"github.com/shutterbox/shutterbox/internal/config"
	"github.com/shutterbox/shutterbox/internal/index"
	"github.com/shutterbox/shutterbox/internal/utils"
)

// GalleryWriter renders a single page bundle for the whole target: one
// directory holding index.md plus every photo's bytes as siblings. The
// gallery's stable identifier is generated once and reused forever.
type GalleryWriter struct {
	Dir     string
	Options config.GalleryOptions

	gallery *index.Gallery
}

func NewGalleryWriter(dir string, opts *config.GalleryOptions) *GalleryWriter {
	w := &GalleryWriter{Dir: dir}
	if opts != nil {
		w.Options = *opts
	}
	return w
}

// Prepare binds the writer to the gallery record for this target,
// creating one on first sync. The album name wins only when no display
// name is configured.
func (w *GalleryWriter) Prepare(idx *index.Index, albumName string) *index.Gallery {
	name := w.Options.Name
	if name == "" {
		name = albumName
	}
	if name == "" {
		name = "Gallery"
	}

	if g := idx.GalleryByName(name); g != nil {
		w.gallery = g
		return g
	}

	now := time.Now().UTC()
	g := &index.Gallery{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: w.Options.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	idx.Galleries[g.ID] = g
	w.gallery = g
	return g
}

func (w *GalleryWriter) photoPath(rec *index.Record) string {
	return filepath.Join(w.Dir, rec.ID+"."+utils.ExtensionForType(rec.ContentType))
}

func (w *GalleryWriter) WritePhoto(rec *index.Record, data []byte) error {
	path := w.photoPath(rec)
	if err := utils.WriteFileAtomic(path, data, 0o644); err != nil {
		return err
	}
	if w.gallery != nil {
		w.gallery.AddPhoto(rec.ID)
	}
	rec.ArtifactPaths = []string{path}
	return nil
}

// Remove deletes the photo's sibling file. Gallery membership is
// already detached by the index when the record was dropped.
func (w *GalleryWriter) Remove(rec *index.Record) error {
	paths := rec.ArtifactPaths
	if len(paths) == 0 {
		paths = []string{w.photoPath(rec)}
	}
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Finalize rewrites the gallery index.md from the index's current
// state. The document date is the gallery's creation time, so repeated
// syncs of an unchanged album produce byte-identical output.
func (w *GalleryWriter) Finalize(idx *index.Index) error {
	if w.gallery == nil {
		return fmt.Errorf("gallery writer not prepared")
	}

	records := idx.GalleryPhotos(w.gallery.ID)
	doc, err := renderGalleryDoc(w.gallery, &w.Options, records)
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(filepath.Join(w.Dir, "index.md"), doc, 0o644)
}

type galleryPhotoEntry struct {
	Filename        string `yaml:"filename"`
	Caption         string `yaml:"caption"`
	MimeType        string `yaml:"mime_type,omitempty"`
	OriginalCaption string `yaml:"original_caption,omitempty"`
	Location        string `yaml:"location,omitempty"`
	CameraMake      string `yaml:"camera_make,omitempty"`
	CameraModel     string `yaml:"camera_model,omitempty"`
	Date            string `yaml:"date"`
}

type galleryFrontMatter struct {
	Title       string              `yaml:"title"`
	Date        string              `yaml:"date"`
	Type        string              `yaml:"type"`
	Layout      string              `yaml:"layout"`
	GalleryID   string              `yaml:"gallery_id"`
	Slug        string              `yaml:"slug,omitempty"`
	Description string              `yaml:"description,omitempty"`
	Unlisted    bool                `yaml:"unlisted,omitempty"`
	NoIndex     bool                `yaml:"noindex,omitempty"`
	PhotoCount  int                 `yaml:"photo_count"`
	Photos      []galleryPhotoEntry `yaml:"photos"`
}

func renderGalleryDoc(g *index.Gallery, opts *config.GalleryOptions, records []*index.Record) ([]byte, error) {
	fm := galleryFrontMatter{
		Title:       g.Name,
		Date:        g.CreatedAt.Format(frontMatterTimeLayout),
		Type:        "gallery",
		Layout:      "gallery",
		GalleryID:   g.ID,
		Slug:        g.Slug,
		Description: g.Description,
		PhotoCount:  len(records),
		Photos:      make([]galleryPhotoEntry, 0, len(records)),
	}

	if p := opts.Privacy; p != nil {
		fm.Unlisted = p.Unlisted
		fm.NoIndex = p.NoIndex
		if p.UseIDSegment {
			fm.Slug = g.ID
		}
	}

	for _, rec := range records {
		entry := galleryPhotoEntry{
			Filename:        rec.ID + "." + utils.ExtensionForType(rec.ContentType),
			Caption:         displayCaption(rec),
			MimeType:        rec.ContentType,
			OriginalCaption: strings.TrimSpace(rec.Caption),
			Date:            displayDate(rec).Format(frontMatterTimeLayout),
		}
		if rec.Metadata != nil {
			entry.CameraMake = rec.Metadata.CameraMake
			entry.CameraModel = rec.Metadata.CameraModel
		}
		if rec.Location != nil && rec.Location.Place != nil {
			entry.Location = rec.Location.Place.Format()
		}
		fm.Photos = append(fm.Photos, entry)
	}

	meta, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("marshal gallery front matter: %w", err)
	}

	var doc bytes.Buffer
	doc.WriteString("---\n")
	doc.Write(meta)
	doc.WriteString("---\n\n")

	if g.Description != "" {
		doc.WriteString(g.Description)
		doc.WriteString("\n\n")
	}

	for i := range fm.Photos {
		entry := &fm.Photos[i]
		if utils.IsVideoType(entry.MimeType) {
			fmt.Fprintf(&doc, "{{< video src=%q caption=%q >}}\n\n", entry.Filename, entry.Caption)
		} else {
			fmt.Fprintf(&doc, "{{< figure\n  src=%q\n  alt=%q\n  caption=%q\n  class=\"ma0 w-75\"\n>}}\n\n",
				entry.Filename, entry.Caption, entry.Caption)
		}
	}

	return doc.Bytes(), nil
}

// displayDate prefers the EXIF capture time over the upload time.
func displayDate(rec *index.Record) time.Time {
	if rec.Metadata != nil && rec.Metadata.TakenAt != nil {
		return *rec.Metadata.TakenAt
	}
	return rec.CreatedAt
}

// displayCaption builds the human caption shown under a gallery photo:
// date, then city or place, then camera, comma-joined.
func displayCaption(rec *index.Record) string {
	parts := []string{displayDate(rec).Format("January 2, 2006")}

	if loc := rec.Location; loc != nil && loc.Place != nil {
		if loc.Place.City != "" {
			parts = append(parts, loc.Place.City)
		} else if formatted := loc.Place.Format(); formatted != "" {
			parts = append(parts, formatted)
		}
	}

	if m := rec.Metadata; m != nil {
		maker, model := strings.TrimSpace(m.CameraMake), strings.TrimSpace(m.CameraModel)
		switch {
		case maker != "" && model != "":
			parts = append(parts, maker+" "+model)
		case model != "":
			parts = append(parts, model)
		case maker != "":
			parts = append(parts, maker)
		}
	}

	return strings.Join(parts, ", ")
}
