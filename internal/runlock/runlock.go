// Package runlock prevents two runs from working on the same directory at
// the same time. Lock files live under the user cache directory so nothing
// is added to the directory being converted.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("another recodec run is already processing this directory")

// Lock is a held advisory lock.
type Lock struct {
	path  string
	flock *flock.Flock
}

// DefaultDir returns the directory lock files are kept in.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(base, "recodec", "locks"), nil
}

// Acquire takes the lock for target without blocking. lockDir defaults to
// DefaultDir when empty.
func Acquire(target, lockDir string) (*Lock, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("resolve lock target: %w", err)
	}
	if lockDir == "" {
		if lockDir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	sum := sha256.Sum256([]byte(abs))
	path := filepath.Join(lockDir, hex.EncodeToString(sum[:8])+".lock")
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, abs)
	}
	return &Lock{path: path, flock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks. The lock file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}
