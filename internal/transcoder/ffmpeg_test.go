package transcoder

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"tracksplit/internal/segment"
)

type recordingExecutor struct {
	binary string
	args   []string
	lines  []string
	err    error
}

func (r *recordingExecutor) Run(_ context.Context, binary string, args []string, onLine func(string)) error {
	r.binary = binary
	r.args = append([]string(nil), args...)
	for _, line := range r.lines {
		onLine(line)
	}
	return r.err
}

func sampleJobs() []segment.Job {
	return []segment.Job{
		{
			StartOffsetSeconds: 0,
			DurationSeconds:    150,
			OutputPath:         "/out/01.Intro.mp3",
			Metadata:           segment.Metadata{Title: "Intro", TrackNumber: 1, Album: "LP", Artist: "Band", Year: 1999},
		},
		{
			StartOffsetSeconds: 150,
			DurationSeconds:    250,
			OutputPath:         "/out/02.Song.mp3",
			Metadata:           segment.Metadata{Title: "Song", TrackNumber: 2, Album: "LP", Artist: "Band"},
		},
	}
}

func TestCutArgs(t *testing.T) {
	tc := New("")
	args := tc.CutArgs("/work/src.mp3", sampleJobs())
	want := []string{
		"-hide_banner", "-nostdin", "-y", "-i", "/work/src.mp3",
		"-map", "0:a", "-acodec", "copy",
		"-metadata", "title=Intro", "-metadata", "track=1", "-metadata", "album=LP", "-metadata", "artist=Band",
		"-metadata", "date=1999",
		"-ss", "0", "-t", "150", "/out/01.Intro.mp3",
		"-map", "0:a", "-acodec", "copy",
		"-metadata", "title=Song", "-metadata", "track=2", "-metadata", "album=LP", "-metadata", "artist=Band",
		"-ss", "150", "-t", "250", "/out/02.Song.mp3",
	}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args:\n got %q\nwant %q", args, want)
	}
	if tc.Binary() != "ffmpeg" {
		t.Fatalf("unexpected default binary %q", tc.Binary())
	}
}

func TestNormalizeArgs(t *testing.T) {
	args := New("avconv", WithQuality(3)).NormalizeArgs("in.webm", "in.webm.mp3")
	want := []string{"-hide_banner", "-nostdin", "-y", "-i", "in.webm", "-vn", "-q:a", "3", "in.webm.mp3"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args: %q", args)
	}
	if got := New("", WithQuality(42)).NormalizeArgs("a", "b")[7]; got != "1" {
		t.Fatalf("out-of-range quality should keep default, got %q", got)
	}
}

func TestCutUsesExecutorAndForwardsLines(t *testing.T) {
	rec := &recordingExecutor{lines: []string{"size=  10kB", "done"}}
	tc := New("/usr/bin/ffmpeg", WithExecutor(rec))

	var got []string
	if err := tc.Cut(context.Background(), "src.mp3", sampleJobs(), func(line string) { got = append(got, line) }); err != nil {
		t.Fatalf("Cut returned error: %v", err)
	}
	if rec.binary != "/usr/bin/ffmpeg" {
		t.Fatalf("unexpected binary %q", rec.binary)
	}
	if !reflect.DeepEqual(got, rec.lines) {
		t.Fatalf("lines not forwarded: %v", got)
	}
	if err := tc.Cut(context.Background(), "src.mp3", nil, nil); err == nil {
		t.Fatal("expected error for empty job list")
	}
}

func TestNormalizeWrapsExecutorError(t *testing.T) {
	boom := errors.New("boom")
	tc := New("", WithExecutor(&recordingExecutor{err: boom}))
	if err := tc.Normalize(context.Background(), "a", "b", nil); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestDryRunQuotes(t *testing.T) {
	got := New("").DryRun([]string{"-i", "my file.webm", "-metadata", "title=It's"})
	want := `ffmpeg -i 'my file.webm' -metadata 'title=It'\''s'`
	if got != want {
		t.Fatalf("DryRun = %s, want %s", got, want)
	}
}

func TestCommandExecutorExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}
	dir := t.TempDir()
	stub := filepath.Join(dir, "fake-ffmpeg")
	script := "#!/bin/sh\necho \"args: $*\"\necho 'progress' 1>&2\nexit 3\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	var lines []string
	err := CommandExecutor{}.Run(context.Background(), stub, []string{"-i", "x"}, func(line string) {
		lines = append(lines, line)
	})
	if code := ExitCode(err); code != 3 {
		t.Fatalf("ExitCode = %d (err %v), want 3", code, err)
	}
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "args: -i x") || !strings.Contains(joined, "progress") {
		t.Fatalf("missing output lines: %q", joined)
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Fatal("expected 0 for nil")
	}
	if ExitCode(errors.New("plain")) != -1 {
		t.Fatal("expected -1 for non-exit error")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	err := exec.Command("sh", "-c", "exit 7").Run()
	if ExitCode(err) != 7 {
		t.Fatalf("expected 7, got %d", ExitCode(err))
	}
}

func TestScanLinesOrReturns(t *testing.T) {
	advance, token, _ := scanLinesOrReturns([]byte("frame=1\rframe=2"), false)
	if advance != 8 || string(token) != "frame=1" {
		t.Fatalf("unexpected split: %d %q", advance, token)
	}
	advance, token, _ = scanLinesOrReturns([]byte("tail"), true)
	if advance != 4 || string(token) != "tail" {
		t.Fatalf("unexpected final split: %d %q", advance, token)
	}
}
