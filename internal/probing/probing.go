// Package probing determines the primary video codec of each candidate file.
//
// Prober is the seam the workflow depends on; FFprobe is the production
// implementation. ProbeAll applies the run's probe failure policy across a
// batch.
package probing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"recodec/internal/discovery"
	"recodec/internal/logging"
	"recodec/internal/media/ffprobe"
	"recodec/internal/services"
)

const stage = "probe"

// Result pairs a file with the codec name the inspector reported.
type Result struct {
	File  discovery.VideoFile
	Codec string
}

// Prober reports the primary video codec of a file.
type Prober interface {
	Probe(ctx context.Context, file discovery.VideoFile) (Result, error)
}

// Error describes a file that could not be probed. It matches
// services.ErrProbe under errors.Is.
type Error struct {
	Path     string
	ExitCode int
	Detail   string
	Err      error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("probe %s: %s", e.Path, e.Detail)
	}
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == services.ErrProbe }

// FFprobe probes files by running the ffprobe binary.
type FFprobe struct {
	Binary string
}

// Probe implements Prober.
func (p FFprobe) Probe(ctx context.Context, file discovery.VideoFile) (Result, error) {
	codec, err := ffprobe.CodecName(ctx, p.Binary, file.Path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		probeErr := &Error{Path: file.Path, Err: err}
		var cmdErr *ffprobe.CommandError
		if errors.As(err, &cmdErr) {
			probeErr.ExitCode = cmdErr.ExitCode
			probeErr.Detail = cmdErr.Reason
			if cmdErr.Stderr != "" {
				probeErr.Detail += ": " + cmdErr.Stderr
			}
		}
		return Result{}, probeErr
	}
	return Result{File: file, Codec: codec}, nil
}

// Policy decides what a probe failure does to the batch.
type Policy int

const (
	// FailFast aborts the whole run on the first probe failure.
	FailFast Policy = iota
	// SkipWithWarning logs the failure and leaves the file out of the plan.
	SkipWithWarning
)

func (p Policy) String() string {
	if p == SkipWithWarning {
		return "skip"
	}
	return "fail"
}

// Skipped records a file excluded because it could not be probed.
type Skipped struct {
	File discovery.VideoFile
	Err  error
}

// Batch is the outcome of probing every discovered file.
type Batch struct {
	Results []Result
	Skipped []Skipped
}

// ProbeAll probes files sequentially, one external process at a time, in
// input order. Under FailFast the first failure is returned and no further
// files are probed. Context cancellation always stops the batch.
func ProbeAll(ctx context.Context, prober Prober, files []discovery.VideoFile, policy Policy, logger *slog.Logger) (Batch, error) {
	logger = logging.NewComponentLogger(logger, "probe")
	batch := Batch{Results: make([]Result, 0, len(files))}
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		result, err := prober.Probe(ctx, file)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return batch, ctxErr
			}
			if policy == FailFast {
				return batch, services.Wrap(services.ErrProbe, stage, "probe", file.Path, err)
			}
			logging.WarnWithContext(logger, "probe failed; file left out of plan", "probe_failed",
				append(logging.Position(i+1, len(files)),
					logging.String("file", file.Path),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check the file plays and contains a video stream"),
					logging.String(logging.FieldImpact, "file will not be converted"),
				)...)
			batch.Skipped = append(batch.Skipped, Skipped{File: file, Err: err})
			continue
		}
		result.File = file
		batch.Results = append(batch.Results, result)
		logger.Debug("probed", logging.Args(append(logging.Position(i+1, len(files)),
			logging.String("file", file.Path),
			logging.String("codec", result.Codec),
		)...)...)
	}
	return batch, nil
}
