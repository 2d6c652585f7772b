package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	stageKey     contextKey = "stage"
	fileIndexKey contextKey = "file_index"
)

// WithRunID annotates context with the identifier of the current batch run.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the workflow stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// FilePosition is the 1-based position of the file being worked on within
// the batch.
type FilePosition struct {
	Index int
	Count int
}

// WithFilePosition annotates context with the position of the current file.
func WithFilePosition(ctx context.Context, index, count int) context.Context {
	if index <= 0 || count <= 0 {
		return ctx
	}
	return context.WithValue(ctx, fileIndexKey, FilePosition{Index: index, Count: count})
}

// FilePositionFromContext returns the file position if present.
func FilePositionFromContext(ctx context.Context) (FilePosition, bool) {
	pos, ok := ctx.Value(fileIndexKey).(FilePosition)
	return pos, ok
}
