// Package logging assembles structured slog loggers and formatting helpers used
// across recodec.
//
// It owns the configurable console/JSON handlers, routes output to stderr so
// stdout stays free for plan and summary tables, optionally tees a JSON copy
// into a log file, and exposes context-aware helpers so stage code tags log
// lines with the run id, stage, and file position automatically. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
