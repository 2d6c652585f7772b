package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// CommandError reports a failed or unparseable ffprobe invocation.
type CommandError struct {
	Path     string
	ExitCode int
	Stderr   string
	Reason   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("ffprobe %s: %s", e.Path, e.Reason)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Format Format `json:"format"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Duration string `json:"duration"`
}

// CodecArgs returns the argument list used to query the primary video codec.
func CodecArgs(path string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}

// CodecName returns the codec name of the first video stream in path, exactly
// as ffprobe prints it (trimmed). A non-zero exit, empty output, or output that
// is not a single token yields a *CommandError.
func CodecName(ctx context.Context, binary, path string) (string, error) {
	binary = defaultBinary(binary)
	if strings.TrimSpace(path) == "" {
		return "", errors.New("ffprobe codec: empty path")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, CodecArgs(path)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		cmdErr := &CommandError{Path: path, Stderr: strings.TrimSpace(stderr.String()), Reason: err.Error()}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
			cmdErr.Reason = "non-zero exit"
		}
		return "", cmdErr
	}

	codec := strings.TrimSpace(stdout.String())
	switch {
	case codec == "":
		return "", &CommandError{Path: path, Stderr: strings.TrimSpace(stderr.String()), Reason: "no video stream reported"}
	case strings.ContainsAny(codec, " \t\r\n"):
		return "", &CommandError{Path: path, Reason: fmt.Sprintf("unparseable output %q", codec)}
	}
	return codec, nil
}

// Inspect executes ffprobe against the provided path and decodes the JSON
// container section of its response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = defaultBinary(binary)
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-of", "json", path)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, &CommandError{Path: path, ExitCode: exitErr.ExitCode(), Stderr: strings.TrimSpace(string(exitErr.Stderr)), Reason: "inspect failed"}
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	d := parseFloat(r.Format.Duration)
	if math.IsNaN(d) || d < 0 {
		return 0
	}
	return d
}

func defaultBinary(binary string) string {
	if binary = strings.TrimSpace(binary); binary == "" {
		return "ffprobe"
	}
	return binary
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
