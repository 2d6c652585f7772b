package main

import (
	"fmt"

	"recodec/internal/workflow"
)

const (
	exitFatal       = 1
	exitEmptyPlan   = 2
	exitUserAborted = 3
	exitInterrupted = 130
)

// exitError carries a process exit status out of a command.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.msg
}

// exitForReport maps a run's terminal state to the process exit status.
// Completed and dry runs exit 0 even when individual files failed.
func exitForReport(report workflow.Report) error {
	switch report.State {
	case workflow.StateCompleted, workflow.StatePlannedOnly:
		return nil
	case workflow.StateAbortedEmpty:
		return &exitError{code: exitEmptyPlan}
	case workflow.StateAbortedByUser:
		return &exitError{code: exitUserAborted, msg: "aborted"}
	case workflow.StateInterrupted:
		return &exitError{code: exitInterrupted, msg: "interrupted"}
	default:
		msg := "run failed"
		if report.Err != nil {
			msg = report.Err.Error()
		}
		return &exitError{code: exitFatal, msg: msg}
	}
}
