package outpath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mediaconv/internal/registry"
)

// Derive computes the default output path for an input file: same directory,
// same stem, extension replaced with the registry's default output extension.
// The second return value is false when the input extension is unregistered.
func Derive(reg *registry.Registry, inputPath string) (string, bool) {
	ext := filepath.Ext(inputPath)
	outExt, ok := reg.DefaultOutput(ext)
	if !ok {
		return "", false
	}
	stem := strings.TrimSuffix(inputPath, ext)
	return stem + outExt, true
}

// InDir relocates a path into dir, keeping the base name. An empty dir leaves
// the path untouched.
func InDir(path, dir string) string {
	if strings.TrimSpace(dir) == "" {
		return path
	}
	return filepath.Join(dir, filepath.Base(path))
}

// Deconflict returns path unchanged when nothing exists there. Otherwise it
// probes "stem (1).ext", "stem (2).ext", ... until it finds an unoccupied
// name and returns that.
//
// This is a check-then-act probe: another process can create the chosen name
// between the stat and the eventual write. The dispatch layer closes that
// window by reserving the name with an exclusive create under a directory
// lock; callers using Deconflict directly inherit the race. The search is
// unbounded on purpose, pathological directories fail through ordinary
// filesystem errors rather than an artificial cap.
func Deconflict(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		return "", fmt.Errorf("stat %q: %w", path, err)
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		_, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %q: %w", candidate, err)
		}
	}
}
