package ffprobe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeStub(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCodecNameTrimsOutput(t *testing.T) {
	stub := writeStub(t, `printf 'h264\n'`)
	codec, err := CodecName(context.Background(), stub, "/videos/a.mp4")
	if err != nil {
		t.Fatalf("CodecName returned error: %v", err)
	}
	if codec != "h264" {
		t.Fatalf("codec = %q, want h264", codec)
	}
}

func TestCodecNamePassesStructuredArgs(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	stub := writeStub(t, `for a in "$@"; do printf '%s\n' "$a" >> "`+argsFile+`"; done; echo hevc`)
	path := "/videos/it's a \"test\" $(x).mp4"
	if _, err := CodecName(context.Background(), stub, path); err != nil {
		t.Fatalf("CodecName returned error: %v", err)
	}
	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	got := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	want := CodecArgs(path)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("args = %q, want %q", got, want)
	}
}

func TestCodecNameErrors(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		exitCode int
	}{
		{"non-zero exit", "echo 'Invalid data found' >&2; exit 1", 1},
		{"empty output", "exit 0", 0},
		{"multi token", "printf 'h264\\nhevc\\n'", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CodecName(context.Background(), writeStub(t, tc.body), "/videos/bad.mp4")
			var cmdErr *CommandError
			if !errors.As(err, &cmdErr) {
				t.Fatalf("expected *CommandError, got %v", err)
			}
			if cmdErr.ExitCode != tc.exitCode {
				t.Fatalf("exit code = %d, want %d", cmdErr.ExitCode, tc.exitCode)
			}
		})
	}
}

func TestCodecNameMissingBinary(t *testing.T) {
	_, err := CodecName(context.Background(), filepath.Join(t.TempDir(), "missing"), "/videos/a.mp4")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
}

func TestInspectDecodesJSON(t *testing.T) {
	stub := writeStub(t, `case "$*" in
  *-show_format*) ;;
  *) exit 2 ;;
esac
cat <<'JSON'
{"format":{"duration":"61.5","size":"2048","format_name":"mov,mp4"}}
JSON`)
	result, err := Inspect(context.Background(), stub, "/videos/a.mp4")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if result.DurationSeconds() != 61.5 {
		t.Fatalf("DurationSeconds = %v, want 61.5", result.DurationSeconds())
	}
}

func TestDurationSecondsHandlesInvalidNumbers(t *testing.T) {
	for _, value := range []string{"", "bad", "-1", "N/A"} {
		result := Result{Format: Format{Duration: value}}
		if got := result.DurationSeconds(); got != 0 {
			t.Fatalf("DurationSeconds(%q) = %v, want 0", value, got)
		}
	}
}
