// Package source resolves a locator into the metadata and media file a split
// request works on.
//
// The Local retriever treats the locator as a path on disk. The description
// that carries a free-text tracklist is read from a sidecar file next to the
// media (the ".description" file written by common downloaders, or a ".txt"
// file of the same base name), falling back to a description or comment tag
// embedded in the container.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tracksplit/internal/fileutil"
	"tracksplit/internal/media/ffprobe"
	"tracksplit/internal/timecode"
)

// ErrNotFound reports a locator that does not resolve to a media file.
var ErrNotFound = errors.New("source not found")

// Info is the metadata needed to build an extraction context.
//
// Duration is the formatted total length ("H:MM:SS", "M:SS" or "SS").
type Info struct {
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Filename    string `json:"filename"`
	Title       string `json:"title,omitempty"`
	Artist      string `json:"artist,omitempty"`
}

// Retriever resolves locators to metadata and media.
type Retriever interface {
	Info(ctx context.Context, locator string) (Info, error)
	Fetch(ctx context.Context, locator, dest string) error
}

// ProbeFunc inspects a media file.
type ProbeFunc func(ctx context.Context, path string) (ffprobe.Result, error)

var sidecarExtensions = []string{".description", ".txt"}

// Local retrieves media from the local filesystem.
type Local struct {
	probe ProbeFunc
}

// NewLocal returns a Local retriever probing files with the given ffprobe binary.
func NewLocal(ffprobeBinary string) *Local {
	return &Local{probe: func(ctx context.Context, path string) (ffprobe.Result, error) {
		return ffprobe.Inspect(ctx, ffprobeBinary, path)
	}}
}

// NewLocalWithProbe returns a Local retriever using probe for media inspection.
func NewLocalWithProbe(probe ProbeFunc) *Local {
	return &Local{probe: probe}
}

// Info reads the sidecar description and probes the duration of locator.
func (l *Local) Info(ctx context.Context, locator string) (Info, error) {
	path, err := resolve(locator)
	if err != nil {
		return Info{}, err
	}

	result, err := l.probe(ctx, path)
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}
	if err := result.RequireAudio(); err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}

	description, err := readSidecar(path)
	if err != nil {
		return Info{}, err
	}
	if description == "" {
		description = result.Tag("description")
	}
	if description == "" {
		description = result.Tag("comment")
	}

	return Info{
		Description: description,
		Duration:    timecode.FormatClock(result.WholeSeconds()),
		Filename:    filepath.Base(path),
		Title:       result.Tag("title"),
		Artist:      firstNonEmpty(result.Tag("artist"), result.Tag("album_artist")),
	}, nil
}

// Fetch stages the file at locator into dest.
func (l *Local) Fetch(ctx context.Context, locator, dest string) error {
	path, err := resolve(locator)
	if err != nil {
		return err
	}
	if err := fileutil.Stage(ctx, path, dest); err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	return nil
}

func resolve(locator string) (string, error) {
	trimmed := strings.TrimSpace(locator)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty locator", ErrNotFound)
	}
	path, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", trimmed, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}
	return path, nil
}

// SidecarPaths lists the description files consulted for path, in order.
func SidecarPaths(path string) []string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	paths := make([]string, 0, len(sidecarExtensions))
	for _, ext := range sidecarExtensions {
		paths = append(paths, base+ext)
	}
	return paths
}

func readSidecar(path string) (string, error) {
	for _, candidate := range SidecarPaths(path) {
		data, err := os.ReadFile(candidate)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("read description %s: %w", candidate, err)
		}
		return string(data), nil
	}
	return "", nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
