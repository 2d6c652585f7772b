package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"recodec/internal/discovery"
	"recodec/internal/encoding"
	"recodec/internal/logging"
	"recodec/internal/planning"
	"recodec/internal/probing"
	"recodec/internal/services"
)

// Committer swaps a finished temp file into the place of its original.
type Committer interface {
	Commit(ctx context.Context, original discovery.VideoFile, tempPath string) error
}

// Runner holds the collaborators of a run. Runner values are not safe for
// concurrent use by multiple runs.
type Runner struct {
	Discovery   discovery.Options
	Settings    encoding.Settings
	ProbePolicy probing.Policy
	// DryRun stops after the plan is presented.
	DryRun bool

	Prober     probing.Prober
	Transcoder encoding.Transcoder
	Committer  Committer
	Confirmer  planning.Confirmer

	// PlanOutput receives the rendered plan. Nil discards it.
	PlanOutput io.Writer
	Logger     *slog.Logger
}

// Run executes one batch over root and returns its report. It never
// returns an error; failures are expressed through Report.State and
// Report.Err.
func (r Runner) Run(ctx context.Context, root string) Report {
	target := r.Settings.TargetCodec()
	report := Report{Root: root, Target: target, Plan: planning.Plan{Target: target}}

	discoverCtx := services.WithStage(ctx, "discovery")
	files, err := discovery.Discover(discoverCtx, root, r.Discovery)
	if err != nil {
		return r.fatal(discoverCtx, report, "discovery failed", err)
	}
	r.stageLogger(discoverCtx).Info("discovery complete",
		logging.String("root", root),
		logging.String("extension", r.Discovery.Extension),
		logging.Bool("recursive", r.Discovery.Recursive),
		logging.Int("files", len(files)),
	)

	probeCtx := services.WithStage(ctx, "probe")
	batch, err := probing.ProbeAll(probeCtx, r.Prober, files, r.ProbePolicy, logging.WithContext(probeCtx, r.logger()))
	if err != nil {
		return r.fatal(probeCtx, report, "probe failed", err)
	}

	plan := planning.Build(files, batch, target)
	report.Plan = plan
	report.Files = skippedResults(plan)

	planCtx := services.WithStage(ctx, "plan")
	planLogger := r.stageLogger(planCtx)
	planLogger.Info("plan built",
		logging.String("target", target),
		logging.Int("discovered", plan.Discovered),
		logging.Int("to_convert", len(plan.Files)),
		logging.Int("already_target", len(plan.Current)),
		logging.Int("unprobed", len(plan.Unprobed)),
	)

	if plan.Empty() {
		planLogger.Info("nothing to convert", logging.String(logging.FieldEventType, "empty_plan"))
		report.State = StateAbortedEmpty
		return report
	}
	if r.PlanOutput != nil {
		if err := planning.Render(r.PlanOutput, plan); err != nil {
			planLogger.Warn("plan could not be written", logging.Error(err))
		}
	}
	if r.DryRun {
		planLogger.Info("dry run; stopping after plan", logging.Args(logging.DecisionAttrs("dry_run", "stop", "requested")...)...)
		report.State = StatePlannedOnly
		report.Files = append(report.Files, notStarted(plan.Files, plan)...)
		return report
	}

	ok, err := r.confirm(planCtx, plan)
	switch {
	case err != nil && ctx.Err() != nil:
		return r.interrupted(planCtx, report, plan.Files)
	case err != nil:
		report.State = StateAbortedByUser
		report.Err = err
		report.Files = append(report.Files, notStarted(plan.Files, plan)...)
		logging.WarnWithContext(planLogger, "confirmation could not be read; treating as declined", "confirm_failed",
			logging.Error(err))
		return report
	case !ok:
		planLogger.Info("plan declined", logging.Args(logging.DecisionAttrs("confirmation", "declined", "user answer")...)...)
		report.State = StateAbortedByUser
		report.Files = append(report.Files, notStarted(plan.Files, plan)...)
		return report
	}

	count := len(plan.Files)
	for i, file := range plan.Files {
		if ctx.Err() != nil {
			return r.interrupted(ctx, report, plan.Files[i:])
		}
		fileCtx := services.WithFilePosition(ctx, i+1, count)
		result := r.convert(fileCtx, plan, file)
		report.Files = append(report.Files, result)
		if result.Status == FileFailed && ctx.Err() != nil {
			return r.interrupted(ctx, report, plan.Files[i+1:])
		}
	}

	report.State = StateCompleted
	totals := report.Totals()
	r.stageLogger(ctx).Info("batch complete",
		logging.Int("attempted", totals.Attempted),
		logging.Int("succeeded", totals.Succeeded),
		logging.Int("failed", totals.Failed),
		logging.Int64("saved_bytes", totals.SavedBytes),
	)
	return report
}

// convert runs one transcode and, if it succeeded, the commit.
func (r Runner) convert(ctx context.Context, plan planning.Plan, file discovery.VideoFile) FileResult {
	encodeCtx := services.WithStage(ctx, "encode")
	logger := r.stageLogger(encodeCtx)
	result := FileResult{File: file, Codec: plan.CodecOf(file.Path), Status: FileFailed}
	if info, err := os.Stat(file.Path); err == nil {
		result.OldSize = info.Size()
	}

	logger.Info("converting",
		logging.String("file", file.Path),
		logging.String("from", result.Codec),
		logging.String("to", plan.Target),
	)
	outcome := r.Transcoder.Transcode(encodeCtx, file, r.Settings)
	result.Elapsed = outcome.Elapsed
	result.ExitCode = outcome.ExitCode
	if !outcome.Succeeded() {
		result.Reason = outcome.Reason
		if result.Reason == "" {
			result.Reason = fmt.Sprintf("encoder exited with status %d", outcome.ExitCode)
		}
		result.Err = outcome.Err
		return result
	}
	if info, err := os.Stat(outcome.TempPath); err == nil {
		result.NewSize = info.Size()
	}

	// A finished encode is committed even if an interrupt arrived meanwhile.
	commitCtx := services.WithStage(context.WithoutCancel(ctx), "commit")
	if err := r.Committer.Commit(commitCtx, file, outcome.TempPath); err != nil {
		result.Reason = "replace failed: " + err.Error()
		result.Err = err
		logging.ErrorWithContext(r.stageLogger(commitCtx), "replace failed; original kept", "commit_failed",
			logging.String("file", file.Path),
			logging.String("temp", outcome.TempPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check free space and permissions in the directory"),
		)
		return result
	}

	result.Status = FileConverted
	result.Reason = ""
	logger.Info("converted",
		logging.String("file", file.Path),
		logging.Int64("old_bytes", result.OldSize),
		logging.Int64("new_bytes", result.NewSize),
		logging.Duration("elapsed", result.Elapsed.Round(time.Second)),
	)
	return result
}

func (r Runner) confirm(ctx context.Context, plan planning.Plan) (bool, error) {
	if r.Confirmer == nil {
		return false, nil
	}
	return r.Confirmer.Confirm(ctx, plan)
}

func (r Runner) fatal(ctx context.Context, report Report, msg string, err error) Report {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return r.interrupted(ctx, report, nil)
	}
	report.State = StateFatal
	report.Err = err
	logging.ErrorWithContext(r.stageLogger(ctx), msg, "run_fatal",
		logging.Error(err),
		logging.String("error_category", services.Category(err)),
	)
	return report
}

func (r Runner) interrupted(ctx context.Context, report Report, remaining []discovery.VideoFile) Report {
	report.State = StateInterrupted
	report.Err = context.Cause(ctx)
	if report.Err == nil {
		report.Err = context.Canceled
	}
	report.Files = append(report.Files, notStarted(remaining, report.Plan)...)
	logging.WarnWithContext(r.stageLogger(ctx), "run interrupted", "run_interrupted",
		logging.Int("not_started", len(remaining)),
		logging.String(logging.FieldErrorHint, "delete leftover .recodec-tmp files before re-running"),
		logging.String(logging.FieldImpact, "remaining files left untouched"),
	)
	return report
}

// stageLogger carries the run id, stage and file position found in ctx.
func (r Runner) stageLogger(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, logging.NewComponentLogger(r.Logger, "workflow"))
}

func (r Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.NewNop()
	}
	return r.Logger
}

func skippedResults(plan planning.Plan) []FileResult {
	results := make([]FileResult, 0, len(plan.Current)+len(plan.Unprobed)+len(plan.Files))
	for _, current := range plan.Current {
		results = append(results, FileResult{
			File:   current.File,
			Codec:  current.Codec,
			Status: FileSkippedCurrent,
			Reason: "already " + current.Codec,
		})
	}
	for _, skipped := range plan.Unprobed {
		results = append(results, FileResult{
			File:   skipped.File,
			Status: FileSkippedProbe,
			Reason: "probe failed: " + skipped.Err.Error(),
			Err:    skipped.Err,
		})
	}
	return results
}

func notStarted(files []discovery.VideoFile, plan planning.Plan) []FileResult {
	results := make([]FileResult, 0, len(files))
	for _, file := range files {
		results = append(results, FileResult{File: file, Codec: plan.CodecOf(file.Path), Status: FileNotStarted})
	}
	return results
}
