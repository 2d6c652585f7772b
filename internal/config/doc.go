// Package config loads, normalizes, and validates recodec configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as RECODEC_FFMPEG and
// RECODEC_FFPROBE. The Config type centralizes every knob the CLI needs, from
// the encoder choice and quality parameters to the probe failure policy, so a
// run can be described in one pass.
//
// Always obtain settings through this package so downstream code receives
// canonical encoder names, bare file extensions, and clear validation errors.
package config
