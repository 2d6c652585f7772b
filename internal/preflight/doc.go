// Package preflight provides readiness checks run before a batch starts and
// by the "recodec check" command.
//
// RunAll checks the target directory is readable, writable and traversable,
// that ffmpeg and ffprobe resolve, and that ffmpeg carries the selected
// encoder. A failed check stops the run before anything is probed.
package preflight
