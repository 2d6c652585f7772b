package planning

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks whether a non-empty plan should proceed.
type Confirmer interface {
	Confirm(ctx context.Context, plan Plan) (bool, error)
}

// AssumeYes is a pre-given affirmative answer.
type AssumeYes struct{}

// Confirm implements Confirmer.
func (AssumeYes) Confirm(context.Context, Plan) (bool, error) { return true, nil }

// PromptConfirmer asks on Out and reads one line from In. Only "y" or "yes"
// (any case) proceeds; end of input declines.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// Confirm implements Confirmer.
func (c PromptConfirmer) Confirm(ctx context.Context, plan Plan) (bool, error) {
	if c.In == nil {
		return false, nil
	}
	if c.Out != nil {
		if _, err := fmt.Fprintf(c.Out, "Convert %d file(s) to %s? [y/N]: ", len(plan.Files), plan.Target); err != nil {
			return false, err
		}
	}

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(c.In).ReadString('\n')
		ch <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case got := <-ch:
		if got.err != nil && !errors.Is(got.err, io.EOF) {
			return false, fmt.Errorf("read confirmation: %w", got.err)
		}
		return isAffirmative(got.line), nil
	}
}

func isAffirmative(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
