package syncer

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shutterbox/shutterbox/internal/index"
	"github.com/shutterbox/shutterbox/internal/utils"
)

// PhotostreamWriter renders one page bundle per photo: a directory
// named after the photo id holding index.md plus the original bytes.
type PhotostreamWriter struct {
	Dir string
}

func NewPhotostreamWriter(dir string) *PhotostreamWriter {
	return &PhotostreamWriter{Dir: dir}
}

// photoFrontMatter is the page bundle metadata document. Field order
// matches the rendered output; absent optionals are omitted entirely.
type photoFrontMatter struct {
	Title             string   `yaml:"title"`
	Date              string   `yaml:"date"`
	GUID              string   `yaml:"guid"`
	OriginalFilename  string   `yaml:"original_filename,omitempty"`
	Width             int      `yaml:"width,omitempty"`
	Height            int      `yaml:"height,omitempty"`
	MimeType          string   `yaml:"mime_type,omitempty"`
	CameraMake        string   `yaml:"camera_make,omitempty"`
	CameraModel       string   `yaml:"camera_model,omitempty"`
	ExifDate          string   `yaml:"exif_date,omitempty"`
	OriginalLatitude  *float64 `yaml:"original_latitude,omitempty"`
	OriginalLongitude *float64 `yaml:"original_longitude,omitempty"`
	Latitude          *float64 `yaml:"latitude,omitempty"`
	Longitude         *float64 `yaml:"longitude,omitempty"`
	Location          string   `yaml:"location,omitempty"`
	City              string   `yaml:"city,omitempty"`
	State             string   `yaml:"state,omitempty"`
	Country           string   `yaml:"country,omitempty"`
	ISO               *int     `yaml:"iso,omitempty"`
	ExposureTime      string   `yaml:"exposure_time,omitempty"`
	FNumber           *float64 `yaml:"f_number,omitempty"`
	FocalLength       *float64 `yaml:"focal_length,omitempty"`
}

const frontMatterTimeLayout = "2006-01-02T15:04:05-0700"

func (w *PhotostreamWriter) WritePhoto(rec *index.Record, data []byte) error {
	bundleDir := filepath.Join(w.Dir, rec.ID)
	if err := utils.EnsureDir(bundleDir); err != nil {
		return fmt.Errorf("create bundle dir: %w", err)
	}

	photoPath := filepath.Join(bundleDir, OriginalFileBase+"."+utils.ExtensionForType(rec.ContentType))
	if err := utils.WriteFileAtomic(photoPath, data, 0o644); err != nil {
		return err
	}

	doc, err := renderPhotoBundle(rec)
	if err != nil {
		return err
	}
	docPath := filepath.Join(bundleDir, "index.md")
	if err := utils.WriteFileAtomic(docPath, doc, 0o644); err != nil {
		return err
	}

	rec.ArtifactPaths = []string{docPath, photoPath}
	return nil
}

// Remove deletes the photo's whole bundle directory.
func (w *PhotostreamWriter) Remove(rec *index.Record) error {
	return os.RemoveAll(filepath.Join(w.Dir, rec.ID))
}

func (w *PhotostreamWriter) Finalize(*index.Index) error {
	return nil
}

func renderPhotoBundle(rec *index.Record) ([]byte, error) {
	fm := photoFrontMatter{
		Title:            rec.Title,
		Date:             rec.CreatedAt.Format(frontMatterTimeLayout),
		GUID:             rec.ID,
		OriginalFilename: rec.OriginalFilename,
		Width:            rec.Width,
		Height:           rec.Height,
		MimeType:         rec.ContentType,
	}

	if m := rec.Metadata; m != nil {
		fm.CameraMake = m.CameraMake
		fm.CameraModel = m.CameraModel
		if m.TakenAt != nil {
			fm.ExifDate = m.TakenAt.Format(frontMatterTimeLayout)
		}
		fm.ISO = m.ISO
		fm.ExposureTime = m.ExposureTime
		fm.FNumber = m.FNumber
		fm.FocalLength = m.FocalLength
	}

	if loc := rec.Location; loc != nil {
		fm.OriginalLatitude = &loc.Latitude
		fm.OriginalLongitude = &loc.Longitude
		fm.Latitude = &loc.FuzzedLatitude
		fm.Longitude = &loc.FuzzedLongitude
		if p := loc.Place; p != nil {
			fm.Location = p.Format()
			fm.City = p.City
			fm.State = p.Region
			fm.Country = p.Country
		}
	}

	meta, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}

	doc := append([]byte("---\n"), meta...)
	doc = append(doc, []byte("---\n\n")...)
	if rec.Caption != "" {
		doc = append(doc, []byte(rec.Caption)...)
		doc = append(doc, '\n')
	}
	return doc, nil
}
