package workflow

// State is the terminal state of a run.
type State int

const (
	// StateCompleted means every planned file was attempted. Individual
	// files may still have failed.
	StateCompleted State = iota
	// StateAbortedEmpty means nothing needed converting.
	StateAbortedEmpty
	// StateAbortedByUser means the plan was declined.
	StateAbortedByUser
	// StateFatal means discovery or probing failed.
	StateFatal
	// StatePlannedOnly means the plan was shown for a dry run.
	StatePlannedOnly
	// StateInterrupted means the run was cancelled.
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StateCompleted:
		return "completed"
	case StateAbortedEmpty:
		return "aborted: nothing to convert"
	case StateAbortedByUser:
		return "aborted by user"
	case StateFatal:
		return "fatal discovery or probe error"
	case StatePlannedOnly:
		return "planned only"
	case StateInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Normal reports whether the run ended without an abort, error or
// interrupt.
func (s State) Normal() bool {
	return s == StateCompleted || s == StatePlannedOnly
}

// FileStatus tags a per-file line of the report.
type FileStatus int

const (
	FileConverted FileStatus = iota
	FileFailed
	FileSkippedCurrent
	FileSkippedProbe
	FileNotStarted
)

func (s FileStatus) String() string {
	switch s {
	case FileConverted:
		return "converted"
	case FileFailed:
		return "failed"
	case FileSkippedCurrent:
		return "skipped"
	case FileSkippedProbe:
		return "unprobed"
	case FileNotStarted:
		return "not started"
	default:
		return "unknown"
	}
}
