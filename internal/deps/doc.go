// Package deps reports whether the external binaries recodec drives are
// installed and usable.
package deps
