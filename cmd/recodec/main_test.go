package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"recodec/internal/config"
	"recodec/internal/logging"
	"recodec/internal/planning"
	"recodec/internal/runlock"
	"recodec/internal/workflow"
)

const ffprobeStub = `#!/bin/sh
for last; do :; done
case "$*" in
  *json*) echo '{"streams":[{"codec_type":"video","codec_name":"h264"}],"format":{"duration":"2.0"}}' ;;
  *) cat "$last" ;;
esac
`

const ffmpegStub = `#!/bin/sh
for last; do :; done
case "$*" in
  *-encoders*)
    echo ' V....D libx265              libx265 H.265 / HEVC'
    echo ' V....D libsvtav1            SVT-AV1'
    exit 0 ;;
esac
echo "out_time_us=2000000"
echo "progress=end"
printf 'hevc\n' > "$last"
`

var fileTime = time.Date(2018, 3, 4, 5, 6, 7, 0, time.UTC)

type cliTestEnv struct {
	dir        string
	configPath string
	lockDir    string
}

func setupCLITestEnv(t *testing.T, files map[string]string) *cliTestEnv {
	t.Helper()
	base := t.TempDir()
	bin := filepath.Join(base, "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatal(err)
	}
	writeScript(t, filepath.Join(bin, "ffprobe"), ffprobeStub)
	writeScript(t, filepath.Join(bin, "ffmpeg"), ffmpegStub)
	t.Setenv("RECODEC_FFPROBE", filepath.Join(bin, "ffprobe"))
	t.Setenv("RECODEC_FFMPEG", filepath.Join(bin, "ffmpeg"))

	dir := filepath.Join(base, "videos")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, codec := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(codec+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, fileTime, fileTime); err != nil {
			t.Fatal(err)
		}
	}
	return &cliTestEnv{
		dir:        dir,
		configPath: filepath.Join(base, "missing-config.toml"),
		lockDir:    filepath.Join(base, "locks"),
	}
}

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (env *cliTestEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	args = append([]string{"--encoder", "libx265", "--lock-dir", env.lockDir, "--log-level", "error"}, args...)
	out, _, err := runCLI(t, append(args, env.dir), env.configPath, stdin)
	return out, err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var exit *exitError
	if !errors.As(err, &exit) {
		t.Fatalf("expected exit error %d, got %v", code, err)
	}
	if exit.code != code {
		t.Fatalf("exit code = %d, want %d (%s)", exit.code, code, exit.msg)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.TrimSpace(string(data))
}

func TestRunConvertsWithAssumeYes(t *testing.T) {
	env := setupCLITestEnv(t, map[string]string{"a.mp4": "h264", "b.mp4": "hevc", "c.mkv": "h264"})

	out, err := env.run(t, "", "--yes")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "TOTAL FILES FOUND (2)")
	requireContains(t, out, "FILES TO PROCESS (1)")
	requireContains(t, out, "a.mp4 (h264)")
	requireContains(t, out, "converted")

	a := filepath.Join(env.dir, "a.mp4")
	if got := readFile(t, a); got != "hevc" {
		t.Fatalf("a.mp4 = %q, want converted", got)
	}
	info, err := os.Stat(a)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(fileTime) {
		t.Fatalf("mtime = %v, want %v", info.ModTime(), fileTime)
	}
	if got := readFile(t, filepath.Join(env.dir, "c.mkv")); got != "h264" {
		t.Fatalf("other extensions must be ignored, c.mkv = %q", got)
	}
}

func TestRunReadsConfirmationFromStdin(t *testing.T) {
	env := setupCLITestEnv(t, map[string]string{"a.mp4": "h264"})

	out, err := env.run(t, "y\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(out, "[y/N]") {
		t.Fatalf("piped stdin should not be prompted, got:\n%s", out)
	}
	if got := readFile(t, filepath.Join(env.dir, "a.mp4")); got != "hevc" {
		t.Fatalf("a.mp4 = %q, want converted", got)
	}
}

func TestRunDeclinedExitsNonZero(t *testing.T) {
	env := setupCLITestEnv(t, map[string]string{"a.mp4": "h264"})

	out, err := env.run(t, "n\n")
	requireExitCode(t, err, exitUserAborted)
	requireContains(t, out, "No files were changed")
	if got := readFile(t, filepath.Join(env.dir, "a.mp4")); got != "h264" {
		t.Fatalf("declined run modified a.mp4: %q", got)
	}
}

func TestRunEmptyPlanExitsNonZero(t *testing.T) {
	env := setupCLITestEnv(t, map[string]string{"a.mp4": "hevc"})

	out, err := env.run(t, "", "--yes")
	requireExitCode(t, err, exitEmptyPlan)
	requireContains(t, out, "Nothing to convert")
}

func TestRunMissingDirectoryIsFatal(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	env.dir = filepath.Join(env.dir, "nope")

	_, err := env.run(t, "", "--yes")
	requireExitCode(t, err, exitFatal)
}

func TestRunDryRunChangesNothing(t *testing.T) {
	env := setupCLITestEnv(t, map[string]string{"a.mp4": "h264"})

	out, err := env.run(t, "", "--dry-run")
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	requireContains(t, out, "Dry run")
	if got := readFile(t, filepath.Join(env.dir, "a.mp4")); got != "h264" {
		t.Fatalf("dry run modified a.mp4: %q", got)
	}
}

func TestRunRejectsInvalidFlags(t *testing.T) {
	env := setupCLITestEnv(t, map[string]string{"a.mp4": "h264"})

	_, err := env.run(t, "", "--yes", "--crf", "99")
	if err == nil || !strings.Contains(err.Error(), "invalid options") {
		t.Fatalf("expected invalid options error, got %v", err)
	}
	_, err = env.run(t, "", "--yes", "--probe-failure", "ignore")
	if err == nil {
		t.Fatal("expected error for unknown probe failure policy")
	}
}

func TestRunRefusesConcurrentRun(t *testing.T) {
	env := setupCLITestEnv(t, map[string]string{"a.mp4": "h264"})
	lock, err := runlock.Acquire(env.dir, env.lockDir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Release()

	_, err = env.run(t, "", "--yes")
	if !errors.Is(err, runlock.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if got := readFile(t, filepath.Join(env.dir, "a.mp4")); got != "h264" {
		t.Fatalf("locked run modified a.mp4: %q", got)
	}
}

func TestRunFailsPreflightWithoutFFmpeg(t *testing.T) {
	env := setupCLITestEnv(t, map[string]string{"a.mp4": "h264"})
	t.Setenv("RECODEC_FFMPEG", filepath.Join(t.TempDir(), "no-ffmpeg"))

	_, err := env.run(t, "", "--yes")
	requireExitCode(t, err, exitFatal)
	if !strings.Contains(err.Error(), "FFmpeg") {
		t.Fatalf("expected ffmpeg named in error, got %v", err)
	}
}

func TestExitForReport(t *testing.T) {
	tests := []struct {
		state workflow.State
		code  int
	}{
		{workflow.StateCompleted, 0},
		{workflow.StatePlannedOnly, 0},
		{workflow.StateAbortedEmpty, exitEmptyPlan},
		{workflow.StateAbortedByUser, exitUserAborted},
		{workflow.StateFatal, exitFatal},
		{workflow.StateInterrupted, exitInterrupted},
	}
	for _, tc := range tests {
		err := exitForReport(workflow.Report{State: tc.state})
		if tc.code == 0 {
			if err != nil {
				t.Fatalf("%v: unexpected error %v", tc.state, err)
			}
			continue
		}
		requireExitCode(t, err, tc.code)
	}
}

func TestNewConfirmer(t *testing.T) {
	cfg := config.Default()
	var out bytes.Buffer
	logger := logging.NewNop()

	cfg.Run.AssumeYes = true
	if _, ok := newConfirmer(&cfg, strings.NewReader(""), &out, logger).(planning.AssumeYes); !ok {
		t.Fatal("assume_yes should skip the prompt")
	}

	cfg.Run.AssumeYes = false
	confirmer, ok := newConfirmer(&cfg, strings.NewReader("y\n"), &out, logger).(planning.PromptConfirmer)
	if !ok || confirmer.Out != nil {
		t.Fatalf("non-terminal stdin should read without prompting, got %#v", confirmer)
	}
	yes, err := confirmer.Confirm(context.Background(), planning.Plan{Target: "hevc"})
	if err != nil || !yes {
		t.Fatalf("Confirm = %v, %v", yes, err)
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected prompt output %q", out.String())
	}
}
