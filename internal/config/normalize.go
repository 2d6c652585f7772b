package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeEncoder()
	c.normalizeDiscovery()
	c.normalizeTools()
	c.normalizeRun()
	return c.normalizeLogging()
}

func (c *Config) normalizeEncoder() {
	c.Encoder.Name = normalizeKey(c.Encoder.Name)
	if c.Encoder.Name == "" {
		c.Encoder.Name = defaultEncoderName
	}
	if canonical, ok := encoderAliases[c.Encoder.Name]; ok {
		c.Encoder.Name = canonical
	}
	c.Encoder.X265Preset = strings.TrimSpace(c.Encoder.X265Preset)
	if c.Encoder.X265Preset == "" {
		c.Encoder.X265Preset = defaultX265Preset
	}
	c.Encoder.AV1Preset = strings.TrimSpace(c.Encoder.AV1Preset)
	if c.Encoder.AV1Preset == "" {
		c.Encoder.AV1Preset = defaultAV1Preset
	}
	c.Encoder.AV1Params = strings.TrimSpace(c.Encoder.AV1Params)
}

func (c *Config) normalizeDiscovery() {
	ext := strings.TrimSpace(c.Discovery.FileExt)
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = defaultFileExt
	}
	c.Discovery.FileExt = ext
}

func (c *Config) normalizeTools() {
	if value, ok := os.LookupEnv("RECODEC_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Tools.FFmpeg = value
	}
	if value, ok := os.LookupEnv("RECODEC_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.Tools.FFprobe = value
	}
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpeg
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobe
	}
}

func (c *Config) normalizeRun() {
	c.Run.ProbeFailure = normalizeKey(c.Run.ProbeFailure)
	if c.Run.ProbeFailure == "" {
		c.Run.ProbeFailure = ProbeFailureFail
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = normalizeKey(c.Logging.Format)
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = normalizeKey(c.Logging.Level)
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) == "" {
		c.Logging.File = ""
		return nil
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
