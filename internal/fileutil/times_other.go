//go:build !linux && !darwin

package fileutil

import "time"

func accessTime(string) (time.Time, bool) {
	return time.Time{}, false
}
