package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CheckEncoder reports whether ffmpeg was built with the named video encoder,
// by scanning the output of "ffmpeg -hide_banner -encoders".
func CheckEncoder(ctx context.Context, ffmpegBinary, encoder string) Status {
	status := Status{
		Name:        "Encoder " + encoder,
		Command:     ffmpegBinary,
		Description: "Video encoder compiled into ffmpeg",
	}
	out, err := exec.CommandContext(ctx, ffmpegBinary, "-hide_banner", "-encoders").Output()
	if err != nil {
		status.Detail = fmt.Sprintf("list encoders: %v", err)
		return status
	}
	if hasEncoder(out, encoder) {
		status.Available = true
		return status
	}
	status.Detail = fmt.Sprintf("ffmpeg has no %q encoder", encoder)
	return status
}

// hasEncoder scans lines like " V....D libx265   libx265 H.265 / HEVC".
func hasEncoder(listing []byte, encoder string) bool {
	scanner := bufio.NewScanner(bytes.NewReader(listing))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && strings.HasPrefix(fields[0], "V") && fields[1] == encoder {
			return true
		}
	}
	return false
}
