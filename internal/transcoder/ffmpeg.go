package transcoder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tracksplit/internal/segment"
)

const (
	defaultBinary  = "ffmpeg"
	defaultQuality = 1
)

// Transcoder drives an ffmpeg-compatible binary.
type Transcoder struct {
	binary  string
	quality int
	exec    Executor
}

// Option configures a Transcoder.
type Option func(*Transcoder)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(t *Transcoder) {
		if exec != nil {
			t.exec = exec
		}
	}
}

// WithQuality sets the VBR quality used when normalizing (0 best, 9 worst).
func WithQuality(q int) Option {
	return func(t *Transcoder) {
		if q >= 0 && q <= 9 {
			t.quality = q
		}
	}
}

// New constructs a transcoder for binary, defaulting to "ffmpeg".
func New(binary string, opts ...Option) *Transcoder {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = defaultBinary
	}
	t := &Transcoder{binary: binary, quality: defaultQuality, exec: CommandExecutor{}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Binary returns the executable the transcoder invokes.
func (t *Transcoder) Binary() string {
	return t.binary
}

// NormalizeArgs builds the arguments that re-encode src to an audio-only
// dst, dropping any video stream.
func (t *Transcoder) NormalizeArgs(src, dst string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", src,
		"-vn",
		"-q:a", strconv.Itoa(t.quality),
		dst,
	}
}

// CutArgs builds one invocation that reads source once and writes every job
// as its own output, stream-copied and tagged.
func (t *Transcoder) CutArgs(source string, jobs []segment.Job) []string {
	args := []string{"-hide_banner", "-nostdin", "-y", "-i", source}
	for _, job := range jobs {
		args = append(args,
			"-map", "0:a",
			"-acodec", "copy",
			"-metadata", "title="+job.Metadata.Title,
			"-metadata", "track="+strconv.Itoa(job.Metadata.TrackNumber),
			"-metadata", "album="+job.Metadata.Album,
			"-metadata", "artist="+job.Metadata.Artist,
		)
		if job.Metadata.Year != 0 {
			args = append(args, "-metadata", "date="+strconv.Itoa(job.Metadata.Year))
		}
		args = append(args,
			"-ss", strconv.Itoa(job.StartOffsetSeconds),
			"-t", strconv.Itoa(job.DurationSeconds),
			job.OutputPath,
		)
	}
	return args
}

// Normalize re-encodes src into dst.
func (t *Transcoder) Normalize(ctx context.Context, src, dst string, onLine func(string)) error {
	if err := t.exec.Run(ctx, t.binary, t.NormalizeArgs(src, dst), onLine); err != nil {
		return fmt.Errorf("normalize %s: %w", src, err)
	}
	return nil
}

// Cut writes every job from source in a single process.
func (t *Transcoder) Cut(ctx context.Context, source string, jobs []segment.Job, onLine func(string)) error {
	if len(jobs) == 0 {
		return errors.New("cut: no jobs")
	}
	if err := t.exec.Run(ctx, t.binary, t.CutArgs(source, jobs), onLine); err != nil {
		return fmt.Errorf("cut %s: %w", source, err)
	}
	return nil
}

// DryRun renders args as a shell-style command line.
func (t *Transcoder) DryRun(args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, t.binary)
	for _, arg := range args {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	if strings.ContainsAny(arg, " \t\n'\"\\$`!*?&;|<>()[]{}#~") {
		return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
	}
	return arg
}
