// Package discovery enumerates candidate video files under a directory.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"recodec/internal/fileutil"
	"recodec/internal/services"
)

const stage = "discovery"

// VideoFile is a candidate file. Identity is Path, which is always absolute.
type VideoFile struct {
	Path string
	Ext  string
}

// Name returns the base file name.
func (v VideoFile) Name() string {
	return filepath.Base(v.Path)
}

// Dir returns the directory holding the file.
func (v VideoFile) Dir() string {
	return filepath.Dir(v.Path)
}

// ModTime reads the modification time from the filesystem. It is not cached.
func (v VideoFile) ModTime() (time.Time, error) {
	info, err := os.Stat(v.Path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// isRegular reports whether entry is a regular file, following a symlink to
// its target. Dangling links are not regular.
func isRegular(path string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Options controls a discovery pass.
type Options struct {
	// Extension is a bare suffix without the leading dot, matched
	// case-sensitively.
	Extension string
	Recursive bool
}

// Discover returns the regular files (or symlinks to them) under root whose names end in
// "."+Extension. Non-recursive mode inspects only root's immediate children.
// Temporary outputs left by earlier runs are never returned.
//
// A missing root yields an error marked services.ErrNotFound. Any traversal
// failure aborts discovery with an error marked services.ErrIO.
func Discover(ctx context.Context, root string, opts Options) ([]VideoFile, error) {
	if strings.TrimSpace(root) == "" {
		return nil, services.Wrap(services.ErrValidation, stage, "resolve root", "empty directory", nil)
	}
	ext := strings.TrimPrefix(opts.Extension, ".")
	if ext == "" {
		return nil, services.Wrap(services.ErrValidation, stage, "filter", "empty file extension", nil)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, stage, "resolve root", root, err)
	}
	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, services.Wrap(services.ErrNotFound, stage, "stat root", abs, err)
	case err != nil:
		return nil, services.Wrap(services.ErrIO, stage, "stat root", abs, err)
	case !info.IsDir():
		return nil, services.Wrap(services.ErrNotFound, stage, "stat root", fmt.Sprintf("%s is not a directory", abs), nil)
	}

	suffix := "." + ext
	var files []VideoFile
	keep := func(path string, entry fs.DirEntry) {
		name := entry.Name()
		if fileutil.IsTempName(name) || !isRegular(path, entry) {
			return
		}
		if len(name) > len(suffix) && strings.HasSuffix(name, suffix) {
			files = append(files, VideoFile{Path: path, Ext: ext})
		}
	}

	if !opts.Recursive {
		entries, err := os.ReadDir(abs)
		if err != nil {
			return nil, services.Wrap(services.ErrIO, stage, "read directory", abs, err)
		}
		for _, entry := range entries {
			keep(filepath.Join(abs, entry.Name()), entry)
		}
		return files, nil
	}

	err = filepath.WalkDir(abs, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return services.Wrap(services.ErrIO, stage, "walk", path, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.IsDir() {
			keep(path, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
