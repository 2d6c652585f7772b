// Package encoding runs ffmpeg to transcode one file into a temporary sibling.
//
// Settings captures the encoder choice and its quality knobs for the whole
// run. BuildArgs turns Settings into the exact ffmpeg argument list for each
// encoder kind, and FFmpeg executes it, reporting a Succeeded or
// Failed(exit code) Outcome. A failed encode leaves its temp file in place
// for diagnosis and never touches the source.
package encoding
