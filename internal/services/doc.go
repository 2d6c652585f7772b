// Package services defines shared utilities consumed by the batch workflow and
// the components it drives.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, stage names, and per-file
//     positions for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into the categories the workflow reports (not found, I/O, probe,
//     external tool, timeout).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
