package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEncoder(); err != nil {
		return err
	}
	if err := c.validateDiscovery(); err != nil {
		return err
	}
	if err := c.validateRun(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateEncoder() error {
	if _, ok := encoderAliases[c.Encoder.Name]; !ok {
		return fmt.Errorf("encoder.name %q is not supported (choose one of %s)", c.Encoder.Name, strings.Join(EncoderNames(), ", "))
	}
	if c.Encoder.CRF < 0 || c.Encoder.CRF > 51 {
		return errors.New("encoder.crf must be between 0 and 51")
	}
	if c.Encoder.Quality < 0 || c.Encoder.Quality > 100 {
		return errors.New("encoder.quality must be between 0 and 100")
	}
	if strings.ContainsAny(c.Encoder.X265Preset, " \t") {
		return errors.New("encoder.x265_preset must be a single token")
	}
	if strings.ContainsAny(c.Encoder.AV1Preset, " \t") {
		return errors.New("encoder.av1_preset must be a single token")
	}
	return nil
}

func (c *Config) validateDiscovery() error {
	if strings.ContainsAny(c.Discovery.FileExt, `/\`) {
		return errors.New("discovery.file_ext must be a bare suffix without path separators")
	}
	return nil
}

func (c *Config) validateRun() error {
	switch c.Run.ProbeFailure {
	case ProbeFailureFail, ProbeFailureSkip:
	default:
		return fmt.Errorf("run.probe_failure must be %q or %q", ProbeFailureFail, ProbeFailureSkip)
	}
	if c.Run.EncodeTimeoutSeconds < 0 {
		return errors.New("run.encode_timeout_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return errors.New("logging.format must be \"console\" or \"json\"")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognised", c.Logging.Level)
	}
	return nil
}
