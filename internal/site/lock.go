package site

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFile is the name of the run lock inside the data dir.
const LockFile = ".show-scraper.lock"

// ErrLocked is returned by Lock when another run holds the data dir.
var ErrLocked = errors.New("data dir is locked by another run")

// Lock takes the exclusive run lock of dataDir. The returned func releases it.
func Lock(dataDir string) (func() error, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	lock := flock.New(filepath.Join(dataDir, LockFile))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", dataDir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", dataDir, ErrLocked)
	}
	return lock.Unlock, nil
}
