package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscoder()
	if err := c.normalizeSplit(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscoder() {
	c.Transcoder.FFmpegBinary = strings.TrimSpace(c.Transcoder.FFmpegBinary)
	if value, ok := os.LookupEnv("TRACKSPLIT_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Transcoder.FFmpegBinary = strings.TrimSpace(value)
	}
	if c.Transcoder.FFmpegBinary == "" {
		c.Transcoder.FFmpegBinary = defaultFFmpegBinary
	}
	c.Transcoder.FFprobeBinary = strings.TrimSpace(c.Transcoder.FFprobeBinary)
	if value, ok := os.LookupEnv("TRACKSPLIT_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.Transcoder.FFprobeBinary = strings.TrimSpace(value)
	}
	if c.Transcoder.FFprobeBinary == "" {
		c.Transcoder.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeSplit() error {
	if c.Split.MaxConcurrent <= 0 {
		c.Split.MaxConcurrent = defaultMaxConcurrent
	}
	cue := strings.TrimSpace(c.Split.CueFile)
	if cue == "" {
		c.Split.CueFile = ""
		return nil
	}
	expanded, err := expandPath(cue)
	if err != nil {
		return fmt.Errorf("split.cue_file: %w", err)
	}
	c.Split.CueFile = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
