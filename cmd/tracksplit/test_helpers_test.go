package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"tracksplit/internal/config"
	"tracksplit/internal/testsupport"
)

const stubFFprobe = `if [ "$1" = "-version" ]; then
  echo "ffprobe version 7.1 Copyright (c) the FFmpeg developers"
  exit 0
fi
cat <<'JSON'
{"streams":[{"index":0,"codec_type":"audio","codec_name":"opus"}],"format":{"duration":"400.0","tags":{"title":"Live at Home","artist":"House Band"}}}
JSON`

const stubFFmpeg = `if [ "$1" = "-version" ]; then
  echo "ffmpeg version 7.1 Copyright (c) the FFmpeg developers"
fi
exit 0`

const liveDescription = "Recorded live.\n0:00 Intro\n2:30 Song A\n5:10 Song B\n"

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	mediaDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("TRACKSPLIT_FFMPEG", "")
	t.Setenv("TRACKSPLIT_FFPROBE", "")

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(stubFFmpeg, stubFFprobe))
	cfg.Logging.Level = "error"

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	mediaDir := filepath.Join(base, "media")
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		t.Fatalf("mkdir media: %v", err)
	}
	return &cliTestEnv{cfg: cfg, configPath: configPath, mediaDir: mediaDir}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
