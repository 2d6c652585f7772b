package encoding

import "strconv"

// BuildArgs returns the ffmpeg argument list (without the binary) that
// transcodes input into output. Every variant keeps container metadata and
// copies audio unchanged. Progress is reported as key=value lines on stdout.
func BuildArgs(s Settings, input, output, logLevel string) []string {
	if logLevel == "" {
		logLevel = "error"
	}
	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-loglevel", logLevel,
		"-nostats", "-progress", "pipe:1",
		"-i", input,
		"-map_metadata", "0",
	}

	switch s.Kind {
	case HardwareHEVC:
		args = append(args,
			"-c:v", HardwareHEVC.FFmpegEncoder(),
			"-q:v", strconv.Itoa(s.Quality),
			"-c:a", "copy",
			"-tag:v", "hvc1",
		)
	case X265Software:
		args = append(args,
			"-c:v", X265Software.FFmpegEncoder(),
			"-pix_fmt", "yuv420p",
			"-preset", orDefault(s.X265Preset, "2"),
			"-c:a", "copy",
			"-tag:v", "hvc1",
			"-crf", strconv.Itoa(s.CRF),
		)
	default:
		args = append(args,
			"-c:v", AV1Software.FFmpegEncoder(),
			"-preset", orDefault(s.AV1Preset, "10"),
			"-crf", strconv.Itoa(s.CRF),
			"-pix_fmt", "yuv420p10le",
		)
		if s.AV1Params != "" {
			args = append(args, "-svtav1-params", s.AV1Params)
		}
		args = append(args, "-c:a", "copy")
	}

	return append(args, output)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
