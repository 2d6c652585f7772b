// Package replace swaps a transcoded temp file into the place of its source.
//
// Commit first copies the source's timestamps (and permission bits) onto the
// temp file, then renames it over the source. Renames are same-directory and
// therefore atomic; if the platform still reports a cross-device rename, the
// temp file is copied into a staging sibling, verified byte for byte, and
// renamed from there. The source stays intact until that rename succeeds.
package replace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"recodec/internal/discovery"
	"recodec/internal/fileutil"
	"recodec/internal/logging"
	"recodec/internal/services"
)

const stage = "commit"

// renameFunc is swapped in tests to simulate EXDEV.
var renameFunc = os.Rename

// Committer replaces originals with their transcoded temp files.
type Committer struct {
	Logger *slog.Logger
}

// Commit replaces original with tempPath. On any error the original is left
// as it was and the returned error is marked services.ErrIO.
func (c Committer) Commit(ctx context.Context, original discovery.VideoFile, tempPath string) error {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(c.Logger, "committer"))
	if err := ctx.Err(); err != nil {
		return err
	}

	srcInfo, err := os.Stat(original.Path)
	if err != nil {
		return services.Wrap(services.ErrIO, stage, "stat original", original.Path, err)
	}
	tmpInfo, err := os.Stat(tempPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return services.Wrap(services.ErrIO, stage, "verify output", "encoded file missing: "+tempPath, err)
	case err != nil:
		return services.Wrap(services.ErrIO, stage, "verify output", tempPath, err)
	case !tmpInfo.Mode().IsRegular():
		return services.Wrap(services.ErrIO, stage, "verify output", "encoded output is not a regular file: "+tempPath, nil)
	case tmpInfo.Size() == 0:
		return services.Wrap(services.ErrIO, stage, "verify output", "encoded file is empty: "+tempPath, nil)
	}

	if err := os.Chmod(tempPath, srcInfo.Mode().Perm()); err != nil {
		return services.Wrap(services.ErrIO, stage, "copy permissions", tempPath, err)
	}
	if err := fileutil.CopyTimes(original.Path, tempPath); err != nil {
		return services.Wrap(services.ErrIO, stage, "copy timestamps", tempPath, err)
	}

	err = renameFunc(tempPath, original.Path)
	if err != nil && fileutil.IsCrossDevice(err) {
		logger.Info("rename crossed filesystems; falling back to verified copy",
			logging.String("temp", tempPath),
			logging.String("file", original.Path),
		)
		err = c.copyIntoPlace(original.Path, tempPath, srcInfo.Mode().Perm())
	}
	if err != nil {
		return services.Wrap(services.ErrIO, stage, "replace original", original.Path, err)
	}
	_ = syncDirBestEffort(original.Dir())

	logger.Info("original replaced",
		logging.String("file", original.Path),
		logging.Int64("old_bytes", srcInfo.Size()),
		logging.Int64("new_bytes", tmpInfo.Size()),
	)
	return nil
}

// copyIntoPlace copies tempPath into a staging file next to original,
// verifies it, stamps the original's times on it, and renames it over
// original. tempPath is removed only after the swap succeeded.
func (c Committer) copyIntoPlace(original, tempPath string, mode fs.FileMode) error {
	staging := stagingPath(original)
	if err := fileutil.CopyFileVerified(tempPath, staging, mode); err != nil {
		return fmt.Errorf("stage copy: %w", err)
	}
	if err := fileutil.CopyTimes(original, staging); err != nil {
		_ = os.Remove(staging)
		return fmt.Errorf("stage timestamps: %w", err)
	}
	if err := renameFunc(staging, original); err != nil {
		_ = os.Remove(staging)
		return fmt.Errorf("swap staged copy: %w", err)
	}
	if err := os.Remove(tempPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.WarnWithContext(c.Logger, "temp file not removed after copy", "temp_cleanup_failed",
			logging.String("temp", tempPath),
			logging.Error(err),
			logging.String(logging.FieldImpact, "stray temp file remains"),
		)
	}
	return nil
}

func stagingPath(original string) string {
	temp := fileutil.TempSibling(original)
	return strings.Replace(temp, fileutil.TempMarker, fileutil.TempMarker+"-stage", 1)
}

func syncDirBestEffort(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(filepath.Clean(dir))
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
