package splitter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"tracksplit/internal/events"
	"tracksplit/internal/extractor"
	"tracksplit/internal/history"
	"tracksplit/internal/logging"
	"tracksplit/internal/segment"
	"tracksplit/internal/services"
	"tracksplit/internal/source"
	"tracksplit/internal/staging"
	"tracksplit/internal/timecode"
	"tracksplit/internal/tracklist"
)

// ErrNoTracklist reports that no extractor produced any tracks.
var ErrNoTracklist = fmt.Errorf("%w: no tracklist found", services.ErrExtraction)

const lockRetryDelay = 250 * time.Millisecond

// Runner cuts a staged file into tracks. *driver.Driver satisfies it.
type Runner interface {
	Split(ctx context.Context, requestID, file string, tl *tracklist.Tracklist, outputDir string) (string, error)
}

// Recorder persists request outcomes. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) (history.Entry, error)
}

// Options wires a Splitter.
type Options struct {
	Retriever source.Retriever
	Runner    Runner
	Bus       *events.Bus
	Logger    *slog.Logger
	Recorder  Recorder

	// StagingDir holds per-request working directories.
	StagingDir string
	// OutputDir receives tracks when a request names none. Empty keeps the
	// tracks in the working directory.
	OutputDir     string
	CueFile       string
	KeepWorkdir   bool
	MaxConcurrent int
	// Extension is the target audio extension used when planning.
	Extension string
}

// Request carries caller-supplied overrides for one split.
type Request struct {
	AlbumName     string `json:"album_name,omitempty"`
	ArtistName    string `json:"artist_name,omitempty"`
	AlbumYear     int    `json:"album_year,omitempty"`
	TracklistData string `json:"-"`
	OutputDir     string `json:"output_dir,omitempty"`
}

// Result describes one finished split request.
type Result struct {
	RequestID  string               `json:"request_id"`
	Locator    string               `json:"locator"`
	OutputPath string               `json:"output_path,omitempty"`
	Tracklist  *tracklist.Tracklist `json:"tracklist,omitempty"`
	Err        error                `json:"-"`
}

// Splitter turns a locator plus optional overrides into tagged tracks.
type Splitter struct {
	chain       *extractor.Chain
	retriever   source.Retriever
	runner      Runner
	bus         *events.Bus
	logger      *slog.Logger
	recorder    Recorder
	stagingDir  string
	outputDir   string
	keepWorkdir bool
	limit       int
	extension   string
}

// New validates opts, builds the extractor chain, and emits a ready event.
func New(opts Options) (*Splitter, error) {
	if opts.Retriever == nil {
		return nil, services.Wrap(services.ErrConfiguration, "splitter", "init", "retriever is required", nil)
	}
	if opts.Runner == nil {
		return nil, services.Wrap(services.ErrConfiguration, "splitter", "init", "runner is required", nil)
	}
	stagingDir := strings.TrimSpace(opts.StagingDir)
	if stagingDir == "" {
		stagingDir = os.TempDir()
	}
	limit := opts.MaxConcurrent
	if limit <= 0 {
		limit = 1
	}
	ext := opts.Extension
	if ext == "" {
		ext = segment.DefaultExtension
	}

	s := &Splitter{
		chain:       extractor.Default(opts.Bus),
		retriever:   opts.Retriever,
		runner:      opts.Runner,
		bus:         opts.Bus,
		logger:      logging.NewComponentLogger(opts.Logger, "splitter"),
		recorder:    opts.Recorder,
		stagingDir:  stagingDir,
		outputDir:   strings.TrimSpace(opts.OutputDir),
		keepWorkdir: opts.KeepWorkdir,
		limit:       limit,
		extension:   ext,
	}
	if cue := strings.TrimSpace(opts.CueFile); cue != "" {
		s.AddCueExtractor(cue)
	}
	s.bus.Emit(events.Event{Kind: events.KindReady})
	return s, nil
}

// Extractors exposes the chain so callers can register their own strategies.
func (s *Splitter) Extractors() *extractor.Chain {
	return s.chain
}

// AddCueExtractor appends a terminal extractor reading the cue sheet at path.
func (s *Splitter) AddCueExtractor(path string) {
	s.chain.Add(extractor.NewCueFile(path))
}

// ExtractTracklist runs the chain over asset without applying overrides.
func (s *Splitter) ExtractTracklist(ctx context.Context, asset extractor.AssetContext) (*tracklist.Tracklist, error) {
	return s.chain.Run(ctx, asset)
}

// Split retrieves locator, infers its tracklist, and cuts it into tracks.
// Failures are reported both as the returned error and as an error event.
func (s *Splitter) Split(ctx context.Context, locator string, req Request) (Result, error) {
	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)
	ctx = services.WithLocator(ctx, locator)
	logger := logging.WithContext(ctx, s.logger)

	res := Result{RequestID: requestID, Locator: locator}
	s.bus.Emit(events.Event{Kind: events.KindStart, RequestID: requestID, URL: locator})
	logger.Info("split request started")

	fail := func(err error, workDir string) (Result, error) {
		res.Err = err
		logger.Error("split request failed", logging.Error(err))
		s.bus.Emit(events.Event{Kind: events.KindError, RequestID: requestID, URL: locator, Err: err})
		s.record(ctx, logger, res)
		if workDir != "" {
			s.removeWorkdir(logger, workDir)
		}
		return res, err
	}

	info, tl, err := s.resolve(ctx, requestID, locator, req)
	res.Tracklist = tl
	if err != nil {
		return fail(err, "")
	}
	logger.Info("tracklist resolved",
		logging.FieldExtractor, tl.Extractor,
		logging.FieldTrackCount, tl.Len(),
		"total_seconds", tl.TotalSeconds(),
	)

	workDir, err := os.MkdirTemp(s.stagingDir, staging.WorkdirPrefix+requestID[:8]+"-")
	if err != nil {
		return fail(services.Wrap(services.ErrConfiguration, "splitter", "stage", "create working directory", err), "")
	}

	file := filepath.Join(workDir, info.Filename)
	s.bus.Messagef(requestID, "Retrieving %s", locator)
	if err := s.retriever.Fetch(ctx, locator, file); err != nil {
		return fail(services.Wrap(services.ErrSource, "source", "fetch", locator, err), workDir)
	}

	outputDir := s.outputDirFor(req, workDir)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fail(services.Wrap(services.ErrConfiguration, "splitter", "output", outputDir, err), workDir)
	}

	unlock, err := s.lockOutput(ctx, outputDir)
	if err != nil {
		return fail(err, workDir)
	}
	// The runner gets its own copy so the reported tracklist stays as resolved.
	out, err := s.runner.Split(ctx, requestID, file, tl.Clone(), outputDir)
	unlock()
	if err != nil {
		return fail(services.Wrap(services.ErrExternalTool, "driver", "split", "", err), workDir)
	}

	res.OutputPath = out
	s.bus.Emit(events.Event{Kind: events.KindEnd, RequestID: requestID, URL: locator, OutputPath: out})
	logger.Info("split request finished", logging.FieldOutput, out, logging.FieldTrackCount, tl.Len())
	s.record(ctx, logger, res)
	if outputDir != workDir {
		s.removeWorkdir(logger, workDir)
	}
	return res, nil
}

// resolve fetches metadata and runs the chain, applying overrides last.
func (s *Splitter) resolve(ctx context.Context, requestID, locator string, req Request) (source.Info, *tracklist.Tracklist, error) {
	if req.AlbumYear < 0 {
		return source.Info{}, nil, services.Wrap(services.ErrValidation, "splitter", "request", fmt.Sprintf("invalid album year %d", req.AlbumYear), nil)
	}

	info, err := s.retriever.Info(ctx, locator)
	if err != nil {
		return source.Info{}, nil, services.Wrap(services.ErrSource, "source", "info", locator, err)
	}

	asset, err := AssetFor(info, req)
	if err != nil {
		return info, nil, services.Wrap(services.ErrSource, "source", "duration", locator, err)
	}
	tl, err := s.chain.RunRequest(ctx, requestID, asset)
	if err != nil {
		return info, nil, services.Wrap(services.ErrExtraction, "splitter", "extract", "", err)
	}
	if tl.Empty() {
		return info, tl, ErrNoTracklist
	}

	if tl.AlbumName == "" {
		tl.AlbumName = info.Title
	}
	if tl.ArtistName == "" {
		tl.ArtistName = info.Artist
	}
	tl.ApplyOverrides(asset.Overrides())
	if err := tl.Validate(); err != nil {
		return info, tl, services.Wrap(services.ErrValidation, "splitter", "tracklist", "", err)
	}
	return info, tl, nil
}

// AssetFor builds the extraction context for a retrieved source, converting
// its formatted duration into seconds.
func AssetFor(info source.Info, req Request) (extractor.AssetContext, error) {
	seconds, err := timecode.ParseClock(info.Duration)
	if err != nil {
		return extractor.AssetContext{}, fmt.Errorf("parse duration: %w", err)
	}
	return extractor.AssetContext{
		Description:     info.Description,
		Duration:        info.Duration,
		DurationSeconds: seconds,
		AlbumName:       req.AlbumName,
		ArtistName:      req.ArtistName,
		AlbumYear:       req.AlbumYear,
		TracklistData:   req.TracklistData,
	}, nil
}

func (s *Splitter) outputDirFor(req Request, workDir string) string {
	if dir := strings.TrimSpace(req.OutputDir); dir != "" {
		return dir
	}
	if s.outputDir != "" {
		return s.outputDir
	}
	return workDir
}

// lockOutput serializes batch cuts into the same output directory, across
// goroutines and processes. The lock file lives in the staging area.
func (s *Splitter) lockOutput(ctx context.Context, outputDir string) (func(), error) {
	lockDir := filepath.Join(s.stagingDir, "locks")
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "splitter", "lock", lockDir, err)
	}
	sum := sha256.Sum256([]byte(filepath.Clean(outputDir)))
	lock := flock.New(filepath.Join(lockDir, hex.EncodeToString(sum[:8])+".lock"))
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "splitter", "lock", outputDir, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "splitter", "lock", outputDir, errors.New("output directory is locked"))
	}
	return func() { _ = lock.Unlock() }, nil
}

func (s *Splitter) removeWorkdir(logger *slog.Logger, dir string) {
	if s.keepWorkdir {
		logger.Debug("keeping working directory", "workdir", dir)
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		logger.Warn("remove working directory failed", "workdir", dir, logging.Error(err))
	}
}

func (s *Splitter) record(ctx context.Context, logger *slog.Logger, res Result) {
	if s.recorder == nil {
		return
	}
	entry := history.Entry{
		ID:         res.RequestID,
		Locator:    res.Locator,
		Status:     history.StatusSucceeded,
		OutputPath: res.OutputPath,
	}
	if res.Tracklist != nil {
		entry.Extractor = res.Tracklist.Extractor
		entry.TrackCount = res.Tracklist.Len()
	}
	if res.Err != nil {
		entry.Status = history.StatusFailed
		entry.Error = res.Err.Error()
	}
	if _, err := s.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		logger.Warn("record history failed", logging.Error(err))
	}
}
