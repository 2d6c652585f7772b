package replace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"recodec/internal/discovery"
	"recodec/internal/fileutil"
	"recodec/internal/services"
)

var pastTime = time.Date(2018, 3, 4, 5, 6, 7, 0, time.UTC)

func setup(t *testing.T) (discovery.VideoFile, string) {
	t.Helper()
	dir := t.TempDir()
	original := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(original, []byte("original bytes"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(original, pastTime, pastTime); err != nil {
		t.Fatal(err)
	}
	temp := fileutil.TempSibling(original)
	if err := os.WriteFile(temp, []byte("encoded"), 0o644); err != nil {
		t.Fatal(err)
	}
	return discovery.VideoFile{Path: original, Ext: "mp4"}, temp
}

func assertReplaced(t *testing.T, file discovery.VideoFile, temp string) {
	t.Helper()
	data, err := os.ReadFile(file.Path)
	if err != nil || string(data) != "encoded" {
		t.Fatalf("original content = %q, %v", data, err)
	}
	info, err := os.Stat(file.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(pastTime) {
		t.Fatalf("mtime = %v, want %v", info.ModTime(), pastTime)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %o, want 600", info.Mode().Perm())
	}
	if _, err := os.Stat(temp); !os.IsNotExist(err) {
		t.Fatalf("temp file should be gone, stat err=%v", err)
	}
}

func TestCommitReplacesAndPreservesTimestamp(t *testing.T) {
	file, temp := setup(t)
	if err := (Committer{}).Commit(context.Background(), file, temp); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	assertReplaced(t, file, temp)
}

func TestCommitCrossDeviceFallback(t *testing.T) {
	file, temp := setup(t)
	calls := 0
	renameFunc = func(oldpath, newpath string) error {
		calls++
		if oldpath == temp {
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
		}
		return os.Rename(oldpath, newpath)
	}
	t.Cleanup(func() { renameFunc = os.Rename })

	if err := (Committer{}).Commit(context.Background(), file, temp); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected direct rename then staged rename, got %d calls", calls)
	}
	assertReplaced(t, file, temp)
	if _, err := os.Stat(stagingPath(file.Path)); !os.IsNotExist(err) {
		t.Fatalf("staging file should be gone, stat err=%v", err)
	}
}

func TestCommitFailedSwapKeepsOriginal(t *testing.T) {
	file, temp := setup(t)
	renameFunc = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EACCES}
	}
	t.Cleanup(func() { renameFunc = os.Rename })

	err := (Committer{}).Commit(context.Background(), file, temp)
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	data, _ := os.ReadFile(file.Path)
	if string(data) != "original bytes" {
		t.Fatalf("original modified: %q", data)
	}
	if _, err := os.Stat(temp); err != nil {
		t.Fatalf("temp should remain after failed swap: %v", err)
	}
}

func TestCommitRejectsMissingOrEmptyOutput(t *testing.T) {
	file, temp := setup(t)
	if err := os.WriteFile(temp, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := (Committer{}).Commit(context.Background(), file, temp); !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO for empty output, got %v", err)
	}
	if err := os.Remove(temp); err != nil {
		t.Fatal(err)
	}
	if err := (Committer{}).Commit(context.Background(), file, temp); !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO for missing output, got %v", err)
	}
	data, _ := os.ReadFile(file.Path)
	if string(data) != "original bytes" {
		t.Fatalf("original modified: %q", data)
	}
}
