package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"recodec/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a default config that logs only errors. Tool paths
// point at binaries that do not exist until WithStubbedTools is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Logging.Level = "error"
	cfgVal.Tools.FFmpeg = filepath.Join(base, "bin", "ffmpeg")
	cfgVal.Tools.FFprobe = filepath.Join(base, "bin", "ffprobe")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithEncoder selects the encoder by canonical name.
func WithEncoder(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encoder.Name = name
	}
}

// WithStubbedTools writes ffmpeg and ffprobe shell stubs with the given
// script bodies. An empty body exits 0.
func WithStubbedTools(ffmpegBody, ffprobeBody string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		b.cfg.Tools.FFmpeg = WriteExecutable(b.t, filepath.Join(binDir, "ffmpeg"), ffmpegBody)
		b.cfg.Tools.FFprobe = WriteExecutable(b.t, filepath.Join(binDir, "ffprobe"), ffprobeBody)
	}
}
