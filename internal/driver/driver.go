// Package driver executes a segmentation plan against the transcoder.
//
// A source that is not already MP3 is first normalized to "<file>.mp3" and
// the original removed. Every track is then cut from that file in one
// transcoder invocation, after which the intermediate is removed whether or
// not the batch succeeded. Nothing is retried.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tracksplit/internal/events"
	"tracksplit/internal/logging"
	"tracksplit/internal/segment"
	"tracksplit/internal/tracklist"
	"tracksplit/internal/transcoder"
)

// Stage names reported in StageError.
const (
	StageNormalize = "normalize"
	StageCut       = "cut"
)

// StageError reports a transcoder failure and its exit code.
type StageError struct {
	Stage string
	Code  int
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed with exit code %d: %v", e.Stage, e.Code, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ExitCode returns the transcoder exit code.
func (e *StageError) ExitCode() int {
	return e.Code
}

// Transcoder is the subset of *transcoder.Transcoder the driver needs.
type Transcoder interface {
	Normalize(ctx context.Context, src, dst string, onLine func(string)) error
	Cut(ctx context.Context, source string, jobs []segment.Job, onLine func(string)) error
}

// Driver runs normalize and batch-cut steps for one request at a time; a
// single Driver may serve concurrent requests on distinct files.
type Driver struct {
	transcoder Transcoder
	bus        *events.Bus
	logger     *slog.Logger
	extension  string
}

// Option configures a Driver.
type Option func(*Driver)

// WithBus routes progress lines to bus as message events.
func WithBus(bus *events.Bus) Option {
	return func(d *Driver) { d.bus = bus }
}

// WithLogger sets the driver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New constructs a driver.
func New(t Transcoder, opts ...Option) *Driver {
	d := &Driver{
		transcoder: t,
		logger:     logging.NewNop(),
		extension:  segment.DefaultExtension,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(logging.FieldComponent, "driver")
	return d
}

// NeedsNormalize reports whether file must be re-encoded before cutting.
func (d *Driver) NeedsNormalize(file string) bool {
	return !strings.EqualFold(filepath.Ext(file), d.extension)
}

// Split normalizes file when needed, then cuts every track of tl into
// outputDir. It returns outputDir on success.
func (d *Driver) Split(ctx context.Context, requestID, file string, tl *tracklist.Tracklist, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = filepath.Dir(file)
	}
	logger := d.logger.With(logging.FieldRequestID, requestID, logging.FieldSource, file)
	d.bus.Messagef(requestID, "Splitting file %q into %d tracks", file, tl.Len())

	source := file
	if d.NeedsNormalize(file) {
		intermediate := file + d.extension
		logger.Info("normalizing source", logging.FieldOutput, intermediate)
		err := d.transcoder.Normalize(ctx, file, intermediate, d.forward(requestID, "MP3 conversion -> "))
		removeQuietly(logger, file)
		if err != nil {
			removeQuietly(logger, intermediate)
			return "", &StageError{Stage: StageNormalize, Code: transcoder.ExitCode(err), Err: err}
		}
		source = intermediate
	}

	jobs, err := segment.Plan(source, tl, segment.Options{OutputDir: outputDir, Extension: d.extension})
	if err != nil {
		removeQuietly(logger, source)
		return "", fmt.Errorf("plan segments: %w", err)
	}

	logger.Info("cutting tracks", logging.FieldTrackCount, len(jobs), logging.FieldOutput, outputDir)
	err = d.transcoder.Cut(ctx, source, jobs, d.forward(requestID, "Split by tracklist -> "))
	removeQuietly(logger, source)
	if err != nil {
		return "", &StageError{Stage: StageCut, Code: transcoder.ExitCode(err), Err: err}
	}
	return outputDir, nil
}

func (d *Driver) forward(requestID, prefix string) func(string) {
	return func(line string) {
		d.bus.Messagef(requestID, "%s%s", prefix, line)
		d.logger.Debug("transcoder output", logging.FieldRequestID, requestID, "line", line)
	}
}

func removeQuietly(logger *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Debug("remove intermediate failed", logging.FieldSource, path, logging.FieldError, err)
	}
}
