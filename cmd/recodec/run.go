package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"recodec/internal/config"
	"recodec/internal/discovery"
	"recodec/internal/encoding"
	"recodec/internal/logging"
	"recodec/internal/planning"
	"recodec/internal/preflight"
	"recodec/internal/probing"
	"recodec/internal/replace"
	"recodec/internal/runlock"
	"recodec/internal/services"
	"recodec/internal/workflow"
)

func runConvert(cmd *cobra.Command, cfg *config.Config, dir string, flags runFlags) error {
	settings, err := encoding.SettingsFromConfig(cfg)
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	cliLogger := logging.WithContext(ctx, logging.NewComponentLogger(logger, "cli"))

	root, err := filepath.Abs(strings.TrimSpace(dir))
	if err != nil {
		return fmt.Errorf("resolve directory: %w", err)
	}

	if err := checkReady(ctx, cfg, root); err != nil {
		return err
	}

	lock, err := runlock.Acquire(root, flags.lockDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			cliLogger.Warn("release run lock failed", logging.Error(err))
		}
	}()

	out := cmd.OutOrStdout()
	policy := probing.FailFast
	if cfg.SkipProbeFailures() {
		policy = probing.SkipWithWarning
	}
	runner := workflow.Runner{
		Discovery:   discovery.Options{Extension: cfg.Discovery.FileExt, Recursive: cfg.Discovery.Recursive},
		Settings:    settings,
		ProbePolicy: policy,
		DryRun:      flags.dryRun,
		Prober:      probing.FFprobe{Binary: cfg.Tools.FFprobe},
		Transcoder: encoding.FFmpeg{
			Binary:     cfg.Tools.FFmpeg,
			FFprobe:    cfg.Tools.FFprobe,
			Timeout:    time.Duration(cfg.EncodeTimeout()) * time.Second,
			ShowOutput: cfg.Run.ShowEncoderOutput,
			Stderr:     cmd.ErrOrStderr(),
			Logger:     logger,
		},
		Committer:  replace.Committer{Logger: logger},
		Confirmer:  newConfirmer(cfg, cmd.InOrStdin(), out, cliLogger),
		PlanOutput: out,
		Logger:     logger,
	}

	cliLogger.Info("run started",
		logging.String("root", root),
		logging.String("encoder", settings.Kind.FFmpegEncoder()),
		logging.String("target", settings.TargetCodec()),
		logging.String("quality", settings.QualityLabel()),
		logging.String("probe_failure", policy.String()),
	)
	report := runner.Run(ctx, root)
	if err := writeReport(out, report); err != nil {
		cliLogger.Warn("summary could not be written", logging.Error(err))
	}
	return exitForReport(report)
}

// checkReady runs the tool checks and, when root is an existing directory,
// the access check. A missing root is left to discovery to report.
func checkReady(ctx context.Context, cfg *config.Config, root string) error {
	results := preflight.RunAll(ctx, cfg, "")
	if info, err := os.Stat(root); err == nil && info.IsDir() {
		results = append(results, preflight.CheckDirectoryAccess("Target directory", root))
	}
	failed := preflight.Failed(results)
	if len(failed) == 0 {
		return nil
	}
	lines := make([]string, 0, len(failed))
	for _, r := range failed {
		lines = append(lines, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return &exitError{code: exitFatal, msg: "preflight failed:\n  " + strings.Join(lines, "\n  ")}
}

// newConfirmer asks on stdout only when stdin is a terminal. Piped input
// (echo y | recodec ...) is still read, without printing a prompt.
func newConfirmer(cfg *config.Config, in io.Reader, out io.Writer, logger *slog.Logger) planning.Confirmer {
	if cfg.Run.AssumeYes {
		return planning.AssumeYes{}
	}
	if !isTerminal(in) {
		logger.Debug("stdin is not a terminal; reading confirmation without a prompt")
		return planning.PromptConfirmer{In: in}
	}
	return planning.PromptConfirmer{In: in, Out: out}
}

func writeReport(out io.Writer, report workflow.Report) error {
	switch report.State {
	case workflow.StateAbortedEmpty:
		_, err := fmt.Fprintf(out, "Nothing to convert: %d file(s) found, none need converting to %s.\n",
			report.Plan.Discovered, report.Target)
		return err
	case workflow.StatePlannedOnly:
		_, err := fmt.Fprintln(out, "Dry run: no files were changed.")
		return err
	case workflow.StateAbortedByUser:
		_, err := fmt.Fprintln(out, "No files were changed.")
		return err
	case workflow.StateFatal:
		return nil
	}
	_, err := fmt.Fprintln(out, renderSummary(report, isTerminal(out)))
	if err != nil {
		return err
	}
	if failed := report.Failures(); len(failed) > 0 {
		_, err = fmt.Fprintf(out, "%d file(s) failed; originals were left untouched.\n", len(failed))
	}
	if report.State == workflow.StateInterrupted {
		_, err = fmt.Fprintln(out, "Interrupted: leftover .recodec-tmp files can be deleted.")
	}
	return err
}
