package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"tracksplit/internal/deps"
	"tracksplit/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "FFmpeg:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusOK, "7.1", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "FFmpeg", Command: "ffmpeg", Available: true, Path: "/usr/bin/ffmpeg", Version: "7.1"},
		{Name: "FFprobe", Command: "ffprobe", Available: false, Detail: `binary "ffprobe" not found`},
	}
	lines := dependencyLines(statuses, false)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[ERROR]") || !strings.Contains(lines[0], "1 of 2") {
		t.Fatalf("unexpected summary %q", lines[0])
	}
	if !strings.Contains(lines[1], "7.1 (/usr/bin/ffmpeg)") {
		t.Fatalf("unexpected ffmpeg line %q", lines[1])
	}
	if !strings.Contains(lines[2], "[ERROR]") || !strings.Contains(lines[2], "not found") {
		t.Fatalf("unexpected ffprobe line %q", lines[2])
	}
}

func TestCheckLines(t *testing.T) {
	lines := checkLines([]preflight.Result{
		{Name: "Staging directory", Passed: true, Detail: "/tmp/staging"},
		{Name: "Cue sheet", Passed: false, Detail: "missing"},
	}, false)
	if !strings.Contains(lines[0], "[OK]") || !strings.Contains(lines[1], "[ERROR] missing") {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestStatusCommandReportsVersions(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, _ := runCLI(t, []string{"status"}, env.configPath)
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "7.1 (")
	requireContains(t, out, "Staging directory")
	requireContains(t, out, filepath.Join(env.cfg.Paths.LogDir, "history.db"))
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, []columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "only") || !strings.Contains(out, "A") {
		t.Fatalf("unexpected table %q", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}
