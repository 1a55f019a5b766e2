// Package staging inspects and prunes the per-request working directories
// the splitter creates under the staging directory.
package staging

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tracksplit/internal/logging"
)

// WorkdirPrefix names every per-request working directory.
const WorkdirPrefix = "request-"

// Workdir describes one working directory left in the staging area.
type Workdir struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size"`
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanResult contains the outcome of a cleanup pass.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// List returns the working directories under stagingDir, oldest first.
// A missing staging directory yields no entries.
func List(stagingDir string) ([]Workdir, error) {
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

	var dirs []Workdir
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), WorkdirPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(stagingDir, entry.Name())
		dirs = append(dirs, Workdir{
			Name:    entry.Name(),
			Path:    path,
			ModTime: info.ModTime(),
			Size:    dirSize(path),
		})
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].ModTime.Before(dirs[j].ModTime) })
	return dirs, nil
}

// CleanStale removes working directories last modified more than maxAge ago.
// maxAge <= 0 removes every working directory. Other entries, such as the
// lock directory, are left alone.
func CleanStale(ctx context.Context, stagingDir string, maxAge time.Duration, logger *slog.Logger) CleanResult {
	result := CleanResult{}
	logger = logging.NewComponentLogger(logger, "staging")

	dirs, err := List(stagingDir)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: stagingDir, Error: err})
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, dir := range dirs {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir.Path, Error: ctx.Err()})
			return result
		}
		if maxAge > 0 && !dir.ModTime.Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir.Path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir.Path, Error: err})
			logger.Warn("remove stale working directory failed", "workdir", dir.Path, logging.Error(err))
			continue
		}
		result.Removed = append(result.Removed, dir.Path)
		logger.Info("removed stale working directory", "workdir", dir.Path, "age", time.Since(dir.ModTime).Round(time.Second))
	}
	return result
}

func dirSize(path string) int64 {
	var size int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				size += info.Size()
			}
		}
		return nil
	})
	return size
}
