package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tracksplit/internal/config"
	"tracksplit/internal/driver"
	"tracksplit/internal/events"
	"tracksplit/internal/history"
	"tracksplit/internal/logging"
	"tracksplit/internal/source"
	"tracksplit/internal/splitter"
	"tracksplit/internal/transcoder"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configErr    error
	resolvedPath string
	configExists bool
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.resolvedPath = resolved
		c.configExists = exists
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) resolvedLogLevel(cfg *config.Config) string {
	if c.logLevelFlag != nil {
		if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
			return level
		}
	}
	return cfg.Logging.Level
}

// logger builds the process logger, honouring --log-level.
func (c *commandContext) logger(cfg *config.Config) (*slog.Logger, error) {
	effective := *cfg
	effective.Logging.Level = c.resolvedLogLevel(cfg)
	logger, err := logging.NewFromConfig(&effective)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return logger, nil
}

type pipelineOptions struct {
	cueFile     string
	withHistory bool
}

// pipeline is a fully wired splitter plus the resources it owns.
type pipeline struct {
	splitter   *splitter.Splitter
	transcoder *transcoder.Transcoder
	history    *history.Store
	logger     *slog.Logger
}

func (p *pipeline) Close() error {
	if p.history == nil {
		return nil
	}
	return p.history.Close()
}

func (c *commandContext) newPipeline(cmd *cobra.Command, cfg *config.Config, opts pipelineOptions) (*pipeline, error) {
	logger, err := c.logger(cfg)
	if err != nil {
		return nil, err
	}

	p := &pipeline{logger: logger}
	var recorder splitter.Recorder
	if opts.withHistory && cfg.History.Enabled {
		store, err := history.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		p.history = store
		recorder = store
	}

	bus := events.NewBus(progressObserver(cmd.ErrOrStderr()))
	tc := transcoder.New(cfg.Transcoder.FFmpegBinary, transcoder.WithQuality(cfg.Transcoder.Quality))
	p.transcoder = tc
	drv := driver.New(tc, driver.WithBus(bus), driver.WithLogger(logger))

	s, err := splitter.New(splitter.Options{
		Retriever:     source.NewLocal(cfg.Transcoder.FFprobeBinary),
		Runner:        drv,
		Bus:           bus,
		Logger:        logger,
		Recorder:      recorder,
		StagingDir:    cfg.Paths.StagingDir,
		OutputDir:     cfg.Paths.OutputDir,
		CueFile:       cfg.Split.CueFile,
		KeepWorkdir:   cfg.Split.KeepWorkdir,
		MaxConcurrent: cfg.Split.MaxConcurrent,
	})
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	if cue := strings.TrimSpace(opts.cueFile); cue != "" {
		expanded, err := config.ExpandPath(cue)
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("resolve cue path: %w", err)
		}
		s.AddCueExtractor(expanded)
	}
	p.splitter = s
	return p, nil
}

// progressObserver prints message events; concurrent requests share w.
func progressObserver(w io.Writer) events.Observer {
	var mu sync.Mutex
	return events.ObserverFunc(func(e events.Event) {
		if e.Kind != events.KindMessage {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if e.RequestID != "" {
			fmt.Fprintf(w, "[%s] %s\n", shortID(e.RequestID), e.Text)
			return
		}
		fmt.Fprintln(w, e.Text)
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
