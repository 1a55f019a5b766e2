package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"tracksplit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The directories are created; options run afterwards.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfgVal.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithCueFile writes content to a cue sheet in the temp tree and points the
// config at it.
func WithCueFile(content string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "album.cue")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			b.t.Fatalf("write cue file: %v", err)
		}
		b.cfg.Split.CueFile = path
	}
}

// WithStubbedBinaries writes executables for ffmpeg and ffprobe that run
// the given shell bodies and points the config at them. An empty body exits 0.
func WithStubbedBinaries(ffmpegBody, ffprobeBody string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		b.cfg.Transcoder.FFmpegBinary = writeStub(b.t, binDir, "ffmpeg", ffmpegBody)
		b.cfg.Transcoder.FFprobeBinary = writeStub(b.t, binDir, "ffprobe", ffprobeBody)
	}
}

func writeStub(t testing.TB, dir, name, body string) string {
	t.Helper()
	if body == "" {
		body = "exit 0"
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
