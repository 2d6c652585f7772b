package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Encoder selects the video encoder and its quality parameters.
type Encoder struct {
	Name       string `toml:"name"`
	CRF        int    `toml:"crf"`
	Quality    int    `toml:"quality"`
	X265Preset string `toml:"x265_preset"`
	AV1Preset  string `toml:"av1_preset"`
	AV1Params  string `toml:"av1_params"`
}

// Discovery controls which files are considered candidates.
type Discovery struct {
	FileExt   string `toml:"file_ext"`
	Recursive bool   `toml:"recursive"`
}

// Tools names the external binaries.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Run contains per-invocation behaviour switches.
type Run struct {
	ProbeFailure         string `toml:"probe_failure"`
	EncodeTimeoutSeconds int    `toml:"encode_timeout_seconds"`
	AssumeYes            bool   `toml:"assume_yes"`
	ShowEncoderOutput    bool   `toml:"show_encoder_output"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for recodec.
//
// Configuration sections:
//   - Encoder: encoder selection, CRF/quality and preset knobs
//   - Discovery: extension filter and recursion
//   - Tools: ffmpeg/ffprobe binaries
//   - Run: probe failure policy, encode timeout, confirmation
//   - Logging: log format, level and optional file
type Config struct {
	Encoder   Encoder   `toml:"encoder"`
	Discovery Discovery `toml:"discovery"`
	Tools     Tools     `toml:"tools"`
	Run       Run       `toml:"run"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file
// yields defaults; the returned bool reports whether a file was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Finalize re-applies normalization and validation after callers overlay
// values (for example command-line flags) onto a loaded config.
func (c *Config) Finalize() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EncodeTimeout returns the per-file encode timeout in seconds; zero means none.
func (c *Config) EncodeTimeout() int {
	if c.Run.EncodeTimeoutSeconds < 0 {
		return 0
	}
	return c.Run.EncodeTimeoutSeconds
}

// SkipProbeFailures reports whether unprobeable files are skipped instead of
// failing the run.
func (c *Config) SkipProbeFailures() bool {
	return c.Run.ProbeFailure == ProbeFailureSkip
}
