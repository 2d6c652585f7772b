//go:build !unix

package fileutil

// IsCrossDevice always reports false where EXDEV does not exist.
func IsCrossDevice(error) bool { return false }
