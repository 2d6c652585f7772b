//go:build unix

package fileutil

import (
	"errors"

	"golang.org/x/sys/unix"
)

// IsCrossDevice reports whether err is a rename failure caused by source and
// destination living on different filesystems. *os.LinkError and wrapped
// errors are unwrapped.
func IsCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
