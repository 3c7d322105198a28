package staging

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeAged(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("staged"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-age)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}
}

func TestCleanStaleRemovesOldFilesAndLocks(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "abc123.png")
	fresh := filepath.Join(dir, "def456.wav")
	staleLock := filepath.Join(dir, "locks", "deadbeef.lock")
	writeAged(t, stale, 48*time.Hour)
	writeAged(t, fresh, time.Minute)
	writeAged(t, staleLock, 48*time.Hour)

	result := CleanStale(dir, 24*time.Hour, nil)

	if len(result.Errors) != 0 {
		t.Fatalf("errors = %+v", result.Errors)
	}
	if len(result.Removed) != 2 {
		t.Fatalf("removed = %v", result.Removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale file survived: %v", err)
	}
	if _, err := os.Stat(staleLock); !os.IsNotExist(err) {
		t.Fatalf("stale lock survived: %v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh file removed: %v", err)
	}
}

func TestCleanStaleSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeAged(t, filepath.Join(dir, "locks", "a.lock"), time.Minute)

	result := CleanStale(dir, 24*time.Hour, nil)

	if len(result.Removed) != 0 || len(result.Errors) != 0 {
		t.Fatalf("result = %+v", result)
	}
	if _, err := os.Stat(filepath.Join(dir, "locks")); err != nil {
		t.Fatalf("locks dir removed: %v", err)
	}
}

func TestCleanStaleMissingDirIsQuiet(t *testing.T) {
	result := CleanStale(filepath.Join(t.TempDir(), "missing"), time.Hour, nil)
	if len(result.Removed) != 0 || len(result.Errors) != 0 {
		t.Fatalf("result = %+v", result)
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	writeAged(t, filepath.Join(dir, "staged.png"), time.Minute)
	writeAged(t, filepath.Join(dir, "locks", "a.lock"), time.Minute)

	files, err := ListFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Name != "staged.png" {
		t.Fatalf("files = %+v", files)
	}
	if files[0].Size != int64(len("staged")) {
		t.Fatalf("size = %d", files[0].Size)
	}
}
