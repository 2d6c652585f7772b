package deps

import (
	"context"
	"path/filepath"
	"testing"

	"recodec/internal/testsupport"
)

func writeStub(t *testing.T, name, body string) string {
	t.Helper()
	return testsupport.WriteExecutable(t, filepath.Join(t.TempDir(), name), body)
}

func TestCheckBinaries(t *testing.T) {
	present := writeStub(t, "present", "exit 0")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}

	missing := Missing(results)
	if len(missing) != 2 || missing[0].Name != "Missing" || missing[1].Name != "Blank" {
		t.Fatalf("Missing should return the unavailable entries in order, got %#v", missing)
	}
}

func TestCheckEncoder(t *testing.T) {
	ffmpeg := writeStub(t, "ffmpeg", `cat <<'EOF'
Encoders:
 V..... = Video
 ------
 V....D libx265              libx265 H.265 / HEVC (codec hevc)
 V....D libsvtav1            SVT-AV1(Scalable Video Technology for AV1) encoder (codec av1)
 A....D aac                  AAC (Advanced Audio Coding)
EOF`)

	if status := CheckEncoder(context.Background(), ffmpeg, "libx265"); !status.Available {
		t.Fatalf("expected libx265 available: %#v", status)
	}
	if status := CheckEncoder(context.Background(), ffmpeg, "hevc_videotoolbox"); status.Available || status.Detail == "" {
		t.Fatalf("expected hevc_videotoolbox missing: %#v", status)
	}
	if status := CheckEncoder(context.Background(), ffmpeg, "aac"); status.Available {
		t.Fatal("audio encoders must not satisfy a video encoder check")
	}

	broken := writeStub(t, "ffmpeg", "exit 1")
	if status := CheckEncoder(context.Background(), broken, "libx265"); status.Available {
		t.Fatal("failing ffmpeg must not report availability")
	}
}
