// Package exifmeta extracts structured camera metadata from photo bytes.
// Extraction never fails the caller: bytes without usable EXIF yield nil.
package exifmeta

import (
	"bytes"
	"fmt"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Metadata holds the EXIF-derived fields of a photo. Every field is
// individually optional: pointers (or empty strings) mark absence.
type Metadata struct {
	CameraMake   string
	CameraModel  string
	TakenAt      *time.Time
	Latitude     *float64
	Longitude    *float64
	ISO          *int
	ExposureTime string
	FNumber      *float64
	FocalLength  *float64
}

// HasCoordinates reports whether both GPS coordinates are present.
func (m *Metadata) HasCoordinates() bool {
	return m != nil && m.Latitude != nil && m.Longitude != nil
}

// Extract decodes EXIF metadata from raw photo bytes. Returns nil when
// the bytes carry no parseable EXIF block; that is a normal outcome for
// screenshots, scrubbed uploads, and non-JPEG content.
func Extract(data []byte) *Metadata {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	meta := &Metadata{
		CameraMake:  stringField(x, exif.Make),
		CameraModel: stringField(x, exif.Model),
	}

	if ts, err := x.DateTime(); err == nil {
		utc := ts.UTC()
		meta.TakenAt = &utc
	}

	if lat, lon, err := x.LatLong(); err == nil {
		meta.Latitude = &lat
		meta.Longitude = &lon
	}

	if iso, ok := intField(x, exif.ISOSpeedRatings); ok {
		meta.ISO = &iso
	}
	meta.ExposureTime = rationalString(x, exif.ExposureTime)
	if f, ok := ratioField(x, exif.FNumber); ok {
		meta.FNumber = &f
	}
	if f, ok := ratioField(x, exif.FocalLength); ok {
		meta.FocalLength = &f
	}

	return meta
}

func stringField(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return s
}

func intField(x *exif.Exif, name exif.FieldName) (int, bool) {
	tag, err := x.Get(name)
	if err != nil || tag.Count == 0 {
		return 0, false
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0, false
	}
	return v, true
}

func ratioField(x *exif.Exif, name exif.FieldName) (float64, bool) {
	num, den, ok := rational(x, name)
	if !ok || den == 0 {
		return 0, false
	}
	return float64(num) / float64(den), true
}

// rationalString renders an exposure-style rational the way photographers
// read it: whole seconds as "2", reciprocal fractions as "1/125", and
// anything else as "num/den".
func rationalString(x *exif.Exif, name exif.FieldName) string {
	num, den, ok := rational(x, name)
	if !ok {
		return ""
	}
	switch {
	case den == 1:
		return fmt.Sprintf("%d", num)
	case num == 0:
		return "0"
	case num != 0 && den%num == 0:
		return fmt.Sprintf("1/%d", den/num)
	default:
		return fmt.Sprintf("%d/%d", num, den)
	}
}

func rational(x *exif.Exif, name exif.FieldName) (int64, int64, bool) {
	tag, err := x.Get(name)
	if err != nil || tag.Count == 0 || tag.Format() != tiff.RatVal {
		return 0, 0, false
	}
	num, den, err := tag.Rat2(0)
	if err != nil {
		return 0, 0, false
	}
	return num, den, true
}
