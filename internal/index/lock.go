package index

import (
	"fmt"

	"github.com/gofrs/flock"

	"github.com/shutterbox/shutterbox/internal/utils"
)

// Acquire takes an advisory lock guarding the index file for the
// duration of a run. A second process syncing the same target errors
// out instead of corrupting the document.
func Acquire(indexPath string) (*flock.Flock, error) {
	if err := utils.EnsureParent(indexPath); err != nil {
		return nil, err
	}

	lock := flock.New(indexPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock index %s: %w", indexPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("index %s is locked by another sync run", indexPath)
	}
	return lock, nil
}
