package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tracksplit/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckReadableFile(t *testing.T) {
	dir := t.TempDir()
	cue := filepath.Join(dir, "album.cue")
	if err := os.WriteFile(cue, []byte("FILE \"a.wav\" WAVE\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckReadableFile("cue", cue); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if result := CheckReadableFile("cue", dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("free", dir, 1); !result.Passed {
		t.Fatalf("expected pass with 1 byte minimum, got %s", result.Detail)
	}
	if result := CheckFreeSpace("free", dir, ^uint64(0)); result.Passed {
		t.Fatal("expected failure with impossible minimum")
	}
	if result := CheckFreeSpace("free", filepath.Join(dir, "missing"), 1); result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestRunAllReportsConfiguredDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.OutputDir = filepath.Join(base, "missing-output")
	if err := os.MkdirAll(cfg.Paths.StagingDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), &cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %#v", results)
	}
	if !results[0].Passed || !results[2].Passed {
		t.Fatalf("expected staging and log checks to pass: %#v", results)
	}
	if results[3].Passed {
		t.Fatal("expected missing output directory to fail")
	}
	if AllPassed(results) {
		t.Fatal("AllPassed should be false")
	}
}

func TestCheckSystemDepsUsesConfiguredBinaries(t *testing.T) {
	binDir := t.TempDir()
	ffmpeg := filepath.Join(binDir, "ffmpeg")
	if err := os.WriteFile(ffmpeg, []byte("#!/bin/sh\necho 'ffmpeg version 6.1'\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Transcoder.FFmpegBinary = ffmpeg
	cfg.Transcoder.FFprobeBinary = "clearly-not-present-ffprobe"

	statuses := CheckSystemDeps(context.Background(), &cfg)
	if len(statuses) != 2 || !statuses[0].Available || statuses[0].Version != "6.1" {
		t.Fatalf("unexpected ffmpeg status: %#v", statuses)
	}
	if statuses[1].Available {
		t.Fatal("expected ffprobe unavailable")
	}
}
