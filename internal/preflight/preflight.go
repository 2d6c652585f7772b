package preflight

import (
	"context"
	"fmt"
	"strings"

	"recodec/internal/config"
	"recodec/internal/deps"
	"recodec/internal/encoding"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the preflight checks for a run over dir. An empty dir skips
// the directory check.
func RunAll(ctx context.Context, cfg *config.Config, dir string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if strings.TrimSpace(dir) != "" {
		results = append(results, CheckDirectoryAccess("Target directory", dir))
	}

	statuses := CheckSystemDeps(cfg)
	for _, status := range statuses {
		results = append(results, fromStatus(status))
	}
	toolsOK := len(deps.Missing(statuses)) == 0

	if kind, err := encoding.ParseKind(cfg.Encoder.Name); err != nil {
		results = append(results, Result{Name: "Encoder", Detail: err.Error()})
	} else if toolsOK {
		results = append(results, fromStatus(deps.CheckEncoder(ctx, cfg.Tools.FFmpeg, kind.FFmpegEncoder())))
	}
	return results
}

// CheckSystemDeps evaluates the external binaries a run needs.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries([]deps.Requirement{
		{Name: "FFmpeg", Command: cfg.Tools.FFmpeg, Description: "Required for encoding"},
		{Name: "FFprobe", Command: cfg.Tools.FFprobe, Description: "Required for codec detection"},
	})
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

func fromStatus(s deps.Status) Result {
	if s.Available {
		return Result{Name: s.Name, Passed: true, Detail: s.Command}
	}
	return Result{Name: s.Name, Detail: fmt.Sprintf("%s (%s)", s.Detail, s.Description)}
}
