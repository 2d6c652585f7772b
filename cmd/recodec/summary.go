package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"recodec/internal/workflow"
)

// renderSummary lists every discovered file with what happened to it.
func renderSummary(report workflow.Report, fancy bool) string {
	rows := make([][]string, 0, len(report.Files))
	for _, f := range report.Files {
		rows = append(rows, []string{
			relativeName(report.Root, f.File.Path),
			f.Codec,
			f.Status.String(),
			resultDetail(f),
		})
	}

	totals := report.Totals()
	footer := []string{
		fmt.Sprintf("%d files", totals.Discovered),
		"",
		fmt.Sprintf("%d ok / %d failed", totals.Succeeded, totals.Failed),
		savedLabel(totals.SavedBytes),
	}
	return renderTable(
		[]string{"File", "Codec", "Result", "Detail"},
		rows,
		footer,
		fancy,
	)
}

func resultDetail(f workflow.FileResult) string {
	switch f.Status {
	case workflow.FileConverted:
		return fmt.Sprintf("%s -> %s", humanize.IBytes(nonNegative(f.OldSize)), humanize.IBytes(nonNegative(f.NewSize)))
	default:
		return f.Reason
	}
}

func savedLabel(saved int64) string {
	switch {
	case saved > 0:
		return "saved " + humanize.IBytes(uint64(saved))
	case saved < 0:
		return "grew " + humanize.IBytes(uint64(-saved))
	default:
		return ""
	}
}

func relativeName(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

func nonNegative(n int64) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}
