// Package segment turns a finished tracklist into per-track extraction jobs:
// seek offset, duration, output filename and the tags to embed.
package segment

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"tracksplit/internal/tracklist"
)

// DefaultExtension is the audio container every job writes.
const DefaultExtension = ".mp3"

// ErrEmptyTracklist reports a plan request without tracks.
var ErrEmptyTracklist = errors.New("tracklist has no tracks")

// Metadata holds the tags embedded in one output file.
type Metadata struct {
	Title       string `json:"title"`
	TrackNumber int    `json:"track_number"`
	Album       string `json:"album"`
	Artist      string `json:"artist"`
	// Year is omitted from the tags when zero.
	Year int `json:"year,omitempty"`
}

// Job is one track's cut parameters.
type Job struct {
	SourceFile         string   `json:"source_file"`
	StartOffsetSeconds int      `json:"start_offset_seconds"`
	DurationSeconds    int      `json:"duration_seconds"`
	OutputFilename     string   `json:"output_filename"`
	OutputPath         string   `json:"output_path"`
	Metadata           Metadata `json:"metadata"`
}

// Options controls where and how outputs are named.
type Options struct {
	OutputDir string
	Extension string
}

// Plan builds one job per track, in track order.
//
// Durations are measured from the previous track's end rather than the
// track's own start, which assumes contiguous audio: a gap before a track is
// added to that track's duration.
func Plan(source string, tl *tracklist.Tracklist, opts Options) ([]Job, error) {
	if tl.Empty() {
		return nil, ErrEmptyTracklist
	}
	ext := opts.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	numbered := tl.AllTracksNumbered()
	width := indexWidth(tl.Len())
	jobs := make([]Job, 0, tl.Len())
	prevEnd := 0
	for i, track := range tl.Tracks {
		if !track.Resolved() {
			return nil, fmt.Errorf("track %d %q: %w", i+1, track.Title, tracklist.ErrUnresolved)
		}
		name := FileName(i+1, width, track.Title, numbered, ext)
		job := Job{
			SourceFile:         source,
			StartOffsetSeconds: track.Start,
			DurationSeconds:    track.End - prevEnd,
			OutputFilename:     name,
			OutputPath:         filepath.Join(opts.OutputDir, name),
			Metadata: Metadata{
				Title:       track.Title,
				TrackNumber: i + 1,
				Album:       tl.AlbumName,
				Artist:      tl.ArtistName,
				Year:        tl.AlbumYear,
			},
		}
		jobs = append(jobs, job)
		prevEnd = track.End
	}
	return jobs, nil
}

// FileName builds "<NN.>" + sanitized title + ext. The index prefix is left
// off when the titles already carry their own numbers.
func FileName(number, width int, title string, numbered bool, ext string) string {
	var b strings.Builder
	if !numbered {
		idx := strconv.Itoa(number)
		if pad := width - len(idx); pad > 0 {
			b.WriteString(strings.Repeat("0", pad))
		}
		b.WriteString(idx)
		b.WriteByte('.')
	}
	b.WriteString(SanitizeTitle(title))
	b.WriteString(ext)
	return b.String()
}

// SanitizeTitle replaces every rune outside [A-Za-z0-9.] with '_'.
func SanitizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// TotalDuration sums job durations.
func TotalDuration(jobs []Job) int {
	total := 0
	for _, job := range jobs {
		total += job.DurationSeconds
	}
	return total
}

func indexWidth(count int) int {
	if digits := len(strconv.Itoa(count)); digits > 2 {
		return digits
	}
	return 2
}
