package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"recodec/internal/config"
)

// runFlags are the command-line overrides for a conversion run.
type runFlags struct {
	recursive     bool
	fileExt       string
	crf           int
	quality       int
	encoder       string
	assumeYes     bool
	dryRun        bool
	probeFailure  string
	encodeTimeout int
	showOutput    bool
	logLevel      string
	logFormat     string
	logFile       string
	lockDir       string
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var flags runFlags

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "recodec [flags] <directory>",
		Short: "Batch-convert videos to HEVC or AV1 in place",
		Long: "recodec probes every matching file in a directory, converts the ones not already in the\n" +
			"target codec with ffmpeg, and swaps each result in place of its original, keeping the\n" +
			"original's timestamps. Originals are only replaced after a successful encode.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg, flags); err != nil {
				return err
			}
			return runConvert(cmd, cfg, args[0], flags)
		},
	}

	defaults := config.Default()
	f := rootCmd.Flags()
	f.BoolVarP(&flags.recursive, "recursive", "r", false, "Descend into subdirectories")
	f.StringVar(&flags.fileExt, "file-ext", defaults.Discovery.FileExt, "File extension to convert (without the dot)")
	f.IntVar(&flags.crf, "crf", defaults.Encoder.CRF, "Constant rate factor for software encoders (0-51)")
	f.IntVar(&flags.quality, "quality", defaults.Encoder.Quality, "Quality for the hardware HEVC encoder (0-100)")
	f.StringVarP(&flags.encoder, "encoder", "e", defaults.Encoder.Name,
		"Encoder: "+strings.Join(config.EncoderNames(), ", "))
	f.BoolVarP(&flags.assumeYes, "yes", "y", false, "Convert without asking for confirmation")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Show the plan and exit without converting")
	f.StringVar(&flags.probeFailure, "probe-failure", config.ProbeFailureFail, "On probe failure: fail the run or skip the file (fail|skip)")
	f.IntVar(&flags.encodeTimeout, "encode-timeout", 0, "Per-file encode limit in seconds (0 disables)")
	f.BoolVar(&flags.showOutput, "show-encoder-output", false, "Stream ffmpeg's own output to stderr")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	f.StringVar(&flags.logFormat, "log-format", "", "Log format (console, json)")
	f.StringVar(&flags.logFile, "log-file", "", "Also write JSON logs to this file")
	f.StringVar(&flags.lockDir, "lock-dir", "", "Directory for run lock files (default: user cache dir)")
	_ = f.MarkHidden("lock-dir")

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))

	return rootCmd
}

// applyRunFlags overlays explicitly set flags onto cfg and re-validates it.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, flags runFlags) error {
	changed := cmd.Flags().Changed
	if changed("recursive") {
		cfg.Discovery.Recursive = flags.recursive
	}
	if changed("file-ext") {
		cfg.Discovery.FileExt = flags.fileExt
	}
	if changed("crf") {
		cfg.Encoder.CRF = flags.crf
	}
	if changed("quality") {
		cfg.Encoder.Quality = flags.quality
	}
	if changed("encoder") {
		cfg.Encoder.Name = flags.encoder
	}
	if changed("yes") {
		cfg.Run.AssumeYes = flags.assumeYes
	}
	if changed("probe-failure") {
		cfg.Run.ProbeFailure = flags.probeFailure
	}
	if changed("encode-timeout") {
		cfg.Run.EncodeTimeoutSeconds = flags.encodeTimeout
	}
	if changed("show-encoder-output") {
		cfg.Run.ShowEncoderOutput = flags.showOutput
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = flags.logFormat
	}
	if changed("log-file") {
		cfg.Logging.File = flags.logFile
	}
	if err := cfg.Finalize(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}
