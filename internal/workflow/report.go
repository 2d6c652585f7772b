package workflow

import (
	"time"

	"recodec/internal/discovery"
	"recodec/internal/planning"
)

// FileResult is the outcome for one discovered file.
type FileResult struct {
	File   discovery.VideoFile
	Codec  string
	Status FileStatus
	// ExitCode is set for failed encodes; -1 when the encoder never exited
	// normally, 0 when the encode succeeded but the commit failed.
	ExitCode int
	Reason   string
	OldSize  int64
	NewSize  int64
	Elapsed  time.Duration
	Err      error
}

// Report is everything a run produced.
type Report struct {
	State  State
	Root   string
	Target string
	Plan   planning.Plan
	// Files lists skipped files first, then planned files in plan order.
	Files []FileResult
	// Err is set for StateFatal and StateInterrupted.
	Err error
}

// Totals summarises a report.
type Totals struct {
	Discovered int
	Skipped    int
	Unprobed   int
	Attempted  int
	Succeeded  int
	Failed     int
	NotStarted int
	SavedBytes int64
}

// Totals counts the per-file results.
func (r Report) Totals() Totals {
	t := Totals{Discovered: r.Plan.Discovered}
	for _, f := range r.Files {
		switch f.Status {
		case FileConverted:
			t.Attempted++
			t.Succeeded++
			t.SavedBytes += f.OldSize - f.NewSize
		case FileFailed:
			t.Attempted++
			t.Failed++
		case FileSkippedCurrent:
			t.Skipped++
		case FileSkippedProbe:
			t.Unprobed++
		case FileNotStarted:
			t.NotStarted++
		}
	}
	return t
}

// Failures returns the failed file results in plan order.
func (r Report) Failures() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Status == FileFailed {
			failed = append(failed, f)
		}
	}
	return failed
}
