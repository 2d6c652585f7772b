package planning

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/list"

	"recodec/internal/discovery"
	"recodec/internal/probing"
)

// Plan is the ordered set of files requiring conversion. It is read-only
// after Build returns.
type Plan struct {
	Target     string
	Discovered int
	// Files need conversion, in discovery order.
	Files []discovery.VideoFile
	// Current are already in the target codec.
	Current []probing.Result
	// Unprobed could not be probed and were left out.
	Unprobed []probing.Skipped
	codecs   map[string]string
}

// Build pairs each discovered file with its probe result and keeps those
// whose codec differs from target. Files without a probe result are not
// planned.
func Build(files []discovery.VideoFile, batch probing.Batch, target string) Plan {
	plan := Plan{
		Target:     target,
		Discovered: len(files),
		Unprobed:   batch.Skipped,
		codecs:     make(map[string]string, len(batch.Results)),
	}
	for _, result := range batch.Results {
		plan.codecs[result.File.Path] = result.Codec
	}
	for _, file := range files {
		codec, ok := plan.codecs[file.Path]
		if !ok {
			continue
		}
		if codec == target {
			plan.Current = append(plan.Current, probing.Result{File: file, Codec: codec})
			continue
		}
		plan.Files = append(plan.Files, file)
	}
	return plan
}

// Empty reports whether nothing needs converting.
func (p Plan) Empty() bool {
	return len(p.Files) == 0
}

// CodecOf returns the probed codec for path.
func (p Plan) CodecOf(path string) string {
	return p.codecs[path]
}

// Render writes the plan for user review: totals and the names (not full
// paths) of files to convert.
func Render(w io.Writer, p Plan) error {
	if _, err := fmt.Fprintf(w, "TOTAL FILES FOUND (%d)\n", p.Discovered); err != nil {
		return err
	}
	if len(p.Current) > 0 {
		if _, err := fmt.Fprintf(w, "ALREADY %s (%d)\n", p.Target, len(p.Current)); err != nil {
			return err
		}
	}
	if len(p.Unprobed) > 0 {
		if _, err := fmt.Fprintf(w, "UNPROBEABLE (%d)\n", len(p.Unprobed)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "FILES TO PROCESS (%d):\n", len(p.Files)); err != nil {
		return err
	}
	if p.Empty() {
		return nil
	}

	lw := list.NewWriter()
	lw.SetStyle(list.StyleBulletCircle)
	for _, file := range p.Files {
		lw.AppendItem(fmt.Sprintf("%s (%s)", file.Name(), p.CodecOf(file.Path)))
	}
	_, err := fmt.Fprintln(w, lw.Render())
	return err
}
