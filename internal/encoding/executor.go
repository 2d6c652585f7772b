package encoding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"recodec/internal/discovery"
	"recodec/internal/fileutil"
	"recodec/internal/logging"
	"recodec/internal/services"
)

const (
	stage            = "encode"
	stderrTailBytes  = 16 << 10
	defaultKillGrace = 10 * time.Second
)

// Status is the tag of an Outcome.
type Status int

const (
	StatusSucceeded Status = iota
	StatusFailed
)

func (s Status) String() string {
	if s == StatusSucceeded {
		return "succeeded"
	}
	return "failed"
}

// Outcome is the result of one transcode. ExitCode is the encoder's exit
// status, or -1 when it never exited normally (spawn failure, timeout,
// interrupt).
type Outcome struct {
	Status   Status
	ExitCode int
	TempPath string
	Elapsed  time.Duration
	// Reason is a short human-readable cause for failures.
	Reason string
	Err    error
}

// Succeeded reports whether the encoder exited with status 0.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSucceeded
}

// Transcoder encodes one file into its temp sibling.
type Transcoder interface {
	Transcode(ctx context.Context, file discovery.VideoFile, s Settings) Outcome
}

// FFmpeg transcodes with the ffmpeg binary.
type FFmpeg struct {
	Binary string
	// FFprobe, when set, is used to read the source duration so progress can
	// be logged as a percentage.
	FFprobe string
	// Timeout bounds a single encode; zero means no limit.
	Timeout time.Duration
	// KillGrace is how long ffmpeg gets to exit after an interrupt before it
	// is killed.
	KillGrace time.Duration
	// ShowOutput raises ffmpeg's log level and copies its stderr to Stderr.
	ShowOutput bool
	Stderr     io.Writer
	Logger     *slog.Logger
}

// Transcode implements Transcoder. It writes to fileutil.TempSibling(file.Path)
// and never modifies the source.
func (f FFmpeg) Transcode(ctx context.Context, file discovery.VideoFile, s Settings) Outcome {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(f.Logger, "encoder"))
	tempPath := fileutil.TempSibling(file.Path)
	outcome := Outcome{Status: StatusFailed, ExitCode: -1, TempPath: tempPath}

	if err := s.Validate(); err != nil {
		outcome.Reason = "invalid settings"
		outcome.Err = err
		return outcome
	}

	binary := f.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	logLevel := "error"
	if f.ShowOutput {
		logLevel = "info"
	}
	args := BuildArgs(s, file.Path, tempPath, logLevel)

	total := f.sourceDuration(ctx, file.Path, logger)
	sampler := logging.NewProgressSampler(10)
	progress := &progressWriter{report: func(outTime time.Duration, done bool) {
		pct := percentOf(outTime, total)
		if done || sampler.ShouldLog(file.Path, pct) {
			logger.Debug("encode progress",
				logging.Float64("percent", pct),
				logging.Duration("out_time", outTime),
				logging.Bool("done", done),
			)
		}
	}}

	runCtx := ctx
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	stderrTail := &tailBuffer{max: stderrTailBytes}
	cmd := exec.CommandContext(runCtx, binary, args...)
	cmd.Stdout = progress
	cmd.Stderr = stderrTail
	if f.ShowOutput && f.Stderr != nil {
		cmd.Stderr = io.MultiWriter(stderrTail, f.Stderr)
	}
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = f.KillGrace
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = defaultKillGrace
	}

	logger.Info("encode started",
		logging.String("file", file.Path),
		logging.String("encoder", s.Kind.FFmpegEncoder()),
		logging.String("quality", s.QualityLabel()),
		logging.String("temp", tempPath),
	)
	logger.Debug("ffmpeg command", logging.String("binary", binary), logging.Any("args", args))

	start := time.Now()
	err := cmd.Run()
	outcome.Elapsed = time.Since(start)

	var exitErr *exec.ExitError
	// Wait reports the context error even when ffmpeg exited 0, so the
	// process state decides success.
	switch {
	case err == nil || (cmd.ProcessState != nil && cmd.ProcessState.Success()):
		outcome.Status = StatusSucceeded
		outcome.ExitCode = 0
	case ctx.Err() != nil:
		outcome.Reason = "interrupted"
		outcome.Err = ctx.Err()
	case f.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded):
		outcome.Reason = fmt.Sprintf("timed out after %s", f.Timeout)
		outcome.Err = services.Wrap(services.ErrTimeout, stage, "ffmpeg", outcome.Reason, runCtx.Err())
	case errors.As(err, &exitErr):
		outcome.ExitCode = exitErr.ExitCode()
		outcome.Reason = fmt.Sprintf("ffmpeg exited with status %d", outcome.ExitCode)
		if line := stderrTail.LastLine(); line != "" {
			outcome.Reason += ": " + line
		}
		outcome.Err = services.Wrap(services.ErrExternalTool, stage, "ffmpeg", outcome.Reason, err)
	default:
		outcome.Reason = "ffmpeg could not be started"
		outcome.Err = services.Wrap(services.ErrExternalTool, stage, "start ffmpeg", binary, err)
	}

	if outcome.Succeeded() {
		logger.Info("encode finished", logging.String("file", file.Path), logging.Duration("elapsed", outcome.Elapsed.Round(time.Second)))
	} else {
		logging.WarnWithContext(logger, "encode failed", "encode_failed",
			logging.String("file", file.Path),
			logging.Int("exit_code", outcome.ExitCode),
			logging.String("reason", outcome.Reason),
			logging.String("temp", tempPath),
			logging.String(logging.FieldErrorHint, "inspect the temp file and ffmpeg output, then delete the temp file"),
			logging.String(logging.FieldImpact, "original left untouched"),
		)
	}
	return outcome
}

func (f FFmpeg) sourceDuration(ctx context.Context, path string, logger *slog.Logger) time.Duration {
	if f.FFprobe == "" {
		return 0
	}
	result, err := inspectMedia(ctx, f.FFprobe, path)
	if err != nil {
		logger.Debug("duration lookup failed; progress will not show percentages", logging.Error(err))
		return 0
	}
	return time.Duration(result.DurationSeconds() * float64(time.Second))
}
