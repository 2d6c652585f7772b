package encoding

import (
	"context"

	"recodec/internal/media/ffprobe"
)

// inspectMedia is used to learn the source duration for progress percentages.
// It is a package-level variable so tests can override it.
var inspectMedia = ffprobe.Inspect

// SetInspectForTests overrides the ffprobe inspection during tests.
func SetInspectForTests(fn func(context.Context, string, string) (ffprobe.Result, error)) func() {
	previous := inspectMedia
	inspectMedia = fn
	return func() {
		inspectMedia = previous
	}
}
