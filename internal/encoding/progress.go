package encoding

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

// progressWriter consumes ffmpeg "-progress" output (key=value lines) and
// reports the encoded media time whenever a progress block closes.
type progressWriter struct {
	pending []byte
	outTime time.Duration
	report  func(outTime time.Duration, done bool)
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.pending = append(w.pending, p...)
	for {
		idx := bytes.IndexByte(w.pending, '\n')
		if idx < 0 {
			break
		}
		w.handleLine(string(w.pending[:idx]))
		w.pending = w.pending[idx+1:]
	}
	return len(p), nil
}

func (w *progressWriter) handleLine(line string) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return
	}
	switch key {
	// out_time_ms is microseconds despite its name.
	case "out_time_us", "out_time_ms":
		if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
			w.outTime = time.Duration(us) * time.Microsecond
		}
	case "progress":
		if w.report != nil {
			w.report(w.outTime, value == "end")
		}
	}
}

func percentOf(outTime, total time.Duration) float64 {
	if total <= 0 {
		return -1
	}
	pct := float64(outTime) / float64(total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; t.max > 0 && over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

// LastLine returns the final non-empty line.
func (t *tailBuffer) LastLine() string {
	lines := strings.Split(strings.TrimSpace(string(t.buf)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
