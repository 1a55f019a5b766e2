package driver

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"tracksplit/internal/events"
	"tracksplit/internal/segment"
	"tracksplit/internal/tracklist"
)

type fakeTranscoder struct {
	normalizeErr error
	cutErr       error
	normalized   []string
	cutSource    string
	cutJobs      []segment.Job
}

func (f *fakeTranscoder) Normalize(_ context.Context, src, dst string, onLine func(string)) error {
	f.normalized = append(f.normalized, src+"->"+dst)
	onLine("encoding")
	if f.normalizeErr != nil {
		return f.normalizeErr
	}
	return os.WriteFile(dst, []byte("mp3"), 0o644)
}

func (f *fakeTranscoder) Cut(_ context.Context, source string, jobs []segment.Job, onLine func(string)) error {
	f.cutSource = source
	f.cutJobs = jobs
	onLine("cutting")
	return f.cutErr
}

func exitError(t *testing.T, code string) error {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	return exec.Command("sh", "-c", "exit "+code).Run()
}

func twoTracks() *tracklist.Tracklist {
	tl := tracklist.New()
	tl.Add("A", 0, 60)
	tl.Add("B", 60, 120)
	return tl
}

func writeSource(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestSplitNormalizesNonMP3(t *testing.T) {
	src := writeSource(t, "video.webm")
	fake := &fakeTranscoder{}
	var messages []string
	bus := events.NewBus(events.ObserverFunc(func(e events.Event) { messages = append(messages, e.Text) }))
	d := New(fake, WithBus(bus))

	out, err := d.Split(context.Background(), "req", src, twoTracks(), "")
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if out != filepath.Dir(src) {
		t.Fatalf("unexpected output dir %q", out)
	}
	if fake.cutSource != src+".mp3" {
		t.Fatalf("expected cut from intermediate, got %q", fake.cutSource)
	}
	if len(fake.cutJobs) != 2 || fake.cutJobs[0].SourceFile != src+".mp3" {
		t.Fatalf("unexpected jobs: %#v", fake.cutJobs)
	}
	for _, path := range []string{src, src + ".mp3"} {
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected %s removed, stat err %v", path, err)
		}
	}
	joined := strings.Join(messages, "\n")
	if !strings.Contains(joined, "MP3 conversion -> encoding") || !strings.Contains(joined, "Split by tracklist -> cutting") {
		t.Fatalf("missing progress messages: %s", joined)
	}
}

func TestSplitSkipsNormalizeForMP3(t *testing.T) {
	src := writeSource(t, "album.MP3")
	fake := &fakeTranscoder{}
	outDir := t.TempDir()

	out, err := New(fake).Split(context.Background(), "req", src, twoTracks(), outDir)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(fake.normalized) != 0 {
		t.Fatalf("did not expect normalize, got %v", fake.normalized)
	}
	if out != outDir || fake.cutJobs[1].OutputPath != filepath.Join(outDir, "02.B.mp3") {
		t.Fatalf("unexpected outputs: %q %#v", out, fake.cutJobs[1])
	}
	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected source removed after cut, stat err %v", err)
	}
}

func TestSplitNormalizeFailureSkipsCut(t *testing.T) {
	src := writeSource(t, "video.mkv")
	fake := &fakeTranscoder{normalizeErr: exitError(t, "2")}

	_, err := New(fake).Split(context.Background(), "req", src, twoTracks(), "")
	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected StageError, got %v", err)
	}
	if stageErr.Stage != StageNormalize || stageErr.Code != 2 {
		t.Fatalf("unexpected stage error: %#v", stageErr)
	}
	if fake.cutSource != "" {
		t.Fatal("cut should not run after normalize failure")
	}
}

func TestSplitCutFailureReportsExitCode(t *testing.T) {
	src := writeSource(t, "album.mp3")
	fake := &fakeTranscoder{cutErr: exitError(t, "1")}

	_, err := New(fake).Split(context.Background(), "req", src, twoTracks(), "")
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageCut || stageErr.ExitCode() != 1 {
		t.Fatalf("expected cut StageError with code 1, got %v", err)
	}
	if _, statErr := os.Stat(src); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("expected intermediate removed after failed cut")
	}
}

func TestSplitRejectsEmptyTracklist(t *testing.T) {
	src := writeSource(t, "album.mp3")
	_, err := New(&fakeTranscoder{}).Split(context.Background(), "req", src, tracklist.New(), "")
	if !errors.Is(err, segment.ErrEmptyTracklist) {
		t.Fatalf("expected ErrEmptyTracklist, got %v", err)
	}
}
