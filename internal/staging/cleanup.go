// Package staging maintains the staging directory used for in-progress
// conversion output. Converters write there under throwaway names and the
// result is promoted to its final path on success, so anything left behind
// belongs to a crashed or interrupted run.
package staging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CleanResult contains the outcome of a staging cleanup pass.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes staged files and lock files older than maxAge. Fresh
// entries are left alone because another process may still be writing them.
func CleanStale(stagingDir string, maxAge time.Duration, logger *slog.Logger) CleanResult {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	result := CleanResult{}

	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	cleanDir(stagingDir, cutoff, logger, &result)
	cleanDir(filepath.Join(stagingDir, "locks"), cutoff, logger, &result)
	return result
}

func cleanDir(dir string, cutoff time.Time, logger *slog.Logger, result *CleanResult) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		}
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			logger.Warn("failed to remove stale staged file",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			continue
		}
		result.Removed = append(result.Removed, path)
		logger.Info("removed stale staged file",
			slog.String("path", path),
			slog.Duration("age", time.Since(info.ModTime())),
		)
	}
}

// ListFiles returns the staged files currently present, lock files excluded.
func ListFiles(stagingDir string) ([]FileInfo, error) {
	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(stagingDir, entry.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	return files, nil
}

// FileInfo contains metadata about one staged file.
type FileInfo struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
}
