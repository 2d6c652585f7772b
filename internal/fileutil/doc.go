// Package fileutil holds the filesystem primitives used when swapping a
// transcoded file into place: temp sibling naming, verified copies,
// timestamp transfer, and cross-device rename detection.
package fileutil
