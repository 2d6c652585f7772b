//go:build linux

package fileutil

import (
	"time"

	"golang.org/x/sys/unix"
)

func accessTime(path string) (time.Time, bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, false
	}
	return time.Unix(st.Atim.Unix()), true
}
