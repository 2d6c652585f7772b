package config

const (
	defaultConfigPath  = "~/.config/recodec/config.toml"
	projectConfigName  = "recodec.toml"
	defaultEncoderName = EncoderAV1Software
	defaultCRF         = 28
	defaultQuality     = 35
	defaultX265Preset  = "2"
	defaultAV1Preset   = "10"
	defaultAV1Params   = "tune=0"
	defaultFileExt     = "mp4"
	defaultFFmpeg      = "ffmpeg"
	defaultFFprobe     = "ffprobe"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Canonical encoder names.
const (
	EncoderX265Software = "x265-software"
	EncoderHardwareHEVC = "hardware-hevc"
	EncoderAV1Software  = "av1-software"
)

// Probe failure policies.
const (
	ProbeFailureFail = "fail"
	ProbeFailureSkip = "skip"
)

// encoderAliases maps accepted spellings (lower-cased) to canonical names.
// The ffmpeg encoder names are accepted so existing invocations keep working.
var encoderAliases = map[string]string{
	EncoderX265Software: EncoderX265Software,
	"libx265":           EncoderX265Software,
	"x265":              EncoderX265Software,
	EncoderHardwareHEVC: EncoderHardwareHEVC,
	"hevc_videotoolbox": EncoderHardwareHEVC,
	EncoderAV1Software:  EncoderAV1Software,
	"libsvtav1":         EncoderAV1Software,
	"svtav1":            EncoderAV1Software,
}

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Encoder: Encoder{
			Name:       defaultEncoderName,
			CRF:        defaultCRF,
			Quality:    defaultQuality,
			X265Preset: defaultX265Preset,
			AV1Preset:  defaultAV1Preset,
			AV1Params:  defaultAV1Params,
		},
		Discovery: Discovery{
			FileExt: defaultFileExt,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpeg,
			FFprobe: defaultFFprobe,
		},
		Run: Run{
			ProbeFailure: ProbeFailureFail,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// CanonicalEncoder resolves an encoder name or alias. The second return is
// false when the name is not recognised.
func CanonicalEncoder(name string) (string, bool) {
	canonical, ok := encoderAliases[normalizeKey(name)]
	return canonical, ok
}

// EncoderNames lists the canonical encoder names in display order.
func EncoderNames() []string {
	return []string{EncoderX265Software, EncoderHardwareHEVC, EncoderAV1Software}
}
