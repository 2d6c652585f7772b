// Package ffprobe wraps the ffprobe binary.
//
// CodecName asks for the primary video stream's codec as a single bare token,
// which is all the batch planner needs. Inspect decodes the full JSON report
// and is used where container duration or size matter, such as encode
// progress.
package ffprobe
