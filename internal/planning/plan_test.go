package planning

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"recodec/internal/discovery"
	"recodec/internal/probing"
)

func sample() ([]discovery.VideoFile, probing.Batch) {
	files := []discovery.VideoFile{
		{Path: "/v/a.mp4", Ext: "mp4"},
		{Path: "/v/b.mp4", Ext: "mp4"},
		{Path: "/v/c.mp4", Ext: "mp4"},
		{Path: "/v/d.mp4", Ext: "mp4"},
		{Path: "/v/e.mp4", Ext: "mp4"},
	}
	batch := probing.Batch{
		Results: []probing.Result{
			{File: files[0], Codec: "h264"},
			{File: files[1], Codec: "hevc"},
			{File: files[2], Codec: "h264"},
			{File: files[3], Codec: "HEVC"},
		},
		Skipped: []probing.Skipped{{File: files[4], Err: errors.New("bad")}},
	}
	return files, batch
}

func TestBuildFiltersExactTargetCodec(t *testing.T) {
	files, batch := sample()
	plan := Build(files, batch, "hevc")

	if plan.Discovered != 5 {
		t.Fatalf("Discovered = %d, want 5", plan.Discovered)
	}
	var got []string
	for _, f := range plan.Files {
		got = append(got, f.Name())
	}
	// Comparison is case-sensitive, so "HEVC" is converted.
	want := "a.mp4,c.mp4,d.mp4"
	if strings.Join(got, ",") != want {
		t.Fatalf("plan files = %v, want %s", got, want)
	}
	if len(plan.Current) != 1 || plan.Current[0].File.Name() != "b.mp4" {
		t.Fatalf("unexpected current: %+v", plan.Current)
	}
	if len(plan.Unprobed) != 1 {
		t.Fatalf("unexpected unprobed: %+v", plan.Unprobed)
	}
	if plan.CodecOf("/v/a.mp4") != "h264" {
		t.Fatalf("CodecOf = %q", plan.CodecOf("/v/a.mp4"))
	}
}

func TestBuildAllCurrentIsEmpty(t *testing.T) {
	files := []discovery.VideoFile{{Path: "/v/a.mp4"}, {Path: "/v/b.mp4"}}
	batch := probing.Batch{Results: []probing.Result{{File: files[0], Codec: "av1"}, {File: files[1], Codec: "av1"}}}
	if plan := Build(files, batch, "av1"); !plan.Empty() {
		t.Fatalf("expected empty plan, got %+v", plan.Files)
	}
	if plan := Build(nil, probing.Batch{}, "av1"); !plan.Empty() || plan.Discovered != 0 {
		t.Fatalf("expected empty plan for no files")
	}
}

func TestRenderListsNamesNotPaths(t *testing.T) {
	files, batch := sample()
	var buf bytes.Buffer
	if err := Render(&buf, Build(files, batch, "hevc")); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, fragment := range []string{"TOTAL FILES FOUND (5)", "FILES TO PROCESS (3):", "a.mp4 (h264)", "ALREADY hevc (1)", "UNPROBEABLE (1)"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in:\n%s", fragment, out)
		}
	}
	if strings.Contains(out, "/v/") {
		t.Fatalf("render should not print directories:\n%s", out)
	}
}

func TestPromptConfirmer(t *testing.T) {
	plan := Plan{Target: "hevc", Files: []discovery.VideoFile{{Path: "/v/a.mp4"}}}
	cases := map[string]bool{
		"y\n":     true,
		"YES\n":   true,
		" yes \n": true,
		"yes":     true,
		"n\n":     false,
		"\n":      false,
		"":        false,
		"maybe\n": false,
	}
	for input, want := range cases {
		var out bytes.Buffer
		got, err := PromptConfirmer{In: strings.NewReader(input), Out: &out}.Confirm(context.Background(), plan)
		if err != nil {
			t.Fatalf("Confirm(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("Confirm(%q) = %v, want %v", input, got, want)
		}
		if !strings.Contains(out.String(), "[y/N]") {
			t.Fatalf("expected prompt, got %q", out.String())
		}
	}
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) { select {} }

func TestPromptConfirmerHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := PromptConfirmer{In: blockingReader{}}.Confirm(ctx, Plan{})
	if ok || !errors.Is(err, context.Canceled) {
		t.Fatalf("Confirm = %v, %v; want false, context.Canceled", ok, err)
	}
}

func TestAssumeYes(t *testing.T) {
	ok, err := AssumeYes{}.Confirm(context.Background(), Plan{})
	if !ok || err != nil {
		t.Fatalf("AssumeYes = %v, %v", ok, err)
	}
}
