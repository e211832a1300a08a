package syncer

import (
	"github.com/shutterbox/shutterbox/internal/index"
)

// OriginalFileBase is the fixed basename for a photo's bytes inside a
// photostream page bundle; only the extension varies by content type.
const OriginalFileBase = "original"

// BundleWriter renders a target's on-disk artifacts. Implementations
// must leave the filesystem with either the old artifact fully intact
// or the new one, never a half-written file.
type BundleWriter interface {
	// WritePhoto persists one photo's artifact set and records the
	// written paths on rec.
	WritePhoto(rec *index.Record, data []byte) error
	// Remove deletes the artifacts for a record that left the remote
	// album. Callers drop the index entry first so a crash mid-delete
	// is recovered by the next run's reconciliation.
	Remove(rec *index.Record) error
	// Finalize writes any collection-level artifact after all photo
	// writes and removes are done.
	Finalize(idx *index.Index) error
}
