package encoding

import (
	"errors"
	"fmt"
	"strings"

	"recodec/internal/config"
	"recodec/internal/services"
)

// Kind identifies an encoder.
type Kind string

const (
	X265Software Kind = config.EncoderX265Software
	HardwareHEVC Kind = config.EncoderHardwareHEVC
	AV1Software  Kind = config.EncoderAV1Software
)

// ParseKind resolves an encoder name or alias (for example "libx265").
func ParseKind(name string) (Kind, error) {
	canonical, ok := config.CanonicalEncoder(name)
	if !ok {
		return "", services.Wrap(services.ErrValidation, "encode", "parse encoder",
			fmt.Sprintf("unknown encoder %q (choose one of %s)", name, strings.Join(config.EncoderNames(), ", ")), nil)
	}
	return Kind(canonical), nil
}

// TargetCodec is the codec name ffprobe reports for output of this encoder.
func (k Kind) TargetCodec() string {
	if k == AV1Software {
		return "av1"
	}
	return "hevc"
}

// FFmpegEncoder is the ffmpeg -c:v value.
func (k Kind) FFmpegEncoder() string {
	switch k {
	case X265Software:
		return "libx265"
	case HardwareHEVC:
		return "hevc_videotoolbox"
	default:
		return "libsvtav1"
	}
}

// UsesQuality reports whether the encoder is driven by Quality rather than CRF.
func (k Kind) UsesQuality() bool {
	return k == HardwareHEVC
}

// Settings is the encoder configuration for a run. It is built once and not
// modified afterwards.
type Settings struct {
	Kind       Kind
	CRF        int
	Quality    int
	X265Preset string
	AV1Preset  string
	AV1Params  string
}

// SettingsFromConfig builds Settings from the [encoder] section.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	if cfg == nil {
		return Settings{}, errors.New("encoding settings: nil config")
	}
	kind, err := ParseKind(cfg.Encoder.Name)
	if err != nil {
		return Settings{}, err
	}
	s := Settings{
		Kind:       kind,
		CRF:        cfg.Encoder.CRF,
		Quality:    cfg.Encoder.Quality,
		X265Preset: cfg.Encoder.X265Preset,
		AV1Preset:  cfg.Encoder.AV1Preset,
		AV1Params:  cfg.Encoder.AV1Params,
	}
	return s, s.Validate()
}

// Validate checks the parameter the selected encoder actually uses.
func (s Settings) Validate() error {
	switch s.Kind {
	case X265Software, AV1Software:
		if s.CRF < 0 || s.CRF > 51 {
			return services.Wrap(services.ErrValidation, "encode", "settings", fmt.Sprintf("crf %d out of range 0-51", s.CRF), nil)
		}
	case HardwareHEVC:
		if s.Quality < 0 || s.Quality > 100 {
			return services.Wrap(services.ErrValidation, "encode", "settings", fmt.Sprintf("quality %d out of range 0-100", s.Quality), nil)
		}
	default:
		return services.Wrap(services.ErrValidation, "encode", "settings", fmt.Sprintf("unknown encoder %q", s.Kind), nil)
	}
	return nil
}

// TargetCodec is shorthand for s.Kind.TargetCodec().
func (s Settings) TargetCodec() string {
	return s.Kind.TargetCodec()
}

// QualityLabel describes the active quality knob, e.g. "crf=28".
func (s Settings) QualityLabel() string {
	if s.Kind.UsesQuality() {
		return fmt.Sprintf("quality=%d", s.Quality)
	}
	return fmt.Sprintf("crf=%d", s.CRF)
}
