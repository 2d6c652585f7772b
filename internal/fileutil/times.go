package fileutil

import (
	"fmt"
	"os"
	"time"
)

// CopyTimes sets dst's modification time (and access time where the platform
// exposes it) to match src.
func CopyTimes(src, dst string) error {
	atime, mtime, err := StatTimes(src)
	if err != nil {
		return fmt.Errorf("stat source times: %w", err)
	}
	if err := os.Chtimes(dst, atime, mtime); err != nil {
		return fmt.Errorf("set times: %w", err)
	}
	return nil
}

// StatTimes returns the access and modification times of path.
func StatTimes(path string) (atime, mtime time.Time, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	mtime = info.ModTime()
	atime, ok := accessTime(path)
	if !ok {
		atime = mtime
	}
	return atime, mtime, nil
}
