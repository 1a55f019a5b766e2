// Package tracklist holds the album-level metadata and ordered track
// boundaries inferred for a single asset.
//
// A Tracklist is filled by exactly one extractor. Track ends may stay Unset
// while the extractor runs and are back-filled once the following boundary
// (or the asset's total duration) is known.
package tracklist

import (
	"errors"
	"fmt"
	"strings"
)

// Unset marks a track end that has not been back-filled yet.
const Unset = -1

var (
	// ErrEmpty reports a tracklist without tracks.
	ErrEmpty = errors.New("tracklist has no tracks")
	// ErrUnresolved reports a track whose end was never back-filled.
	ErrUnresolved = errors.New("track end unresolved")
)

// Track is one (title, start, end) boundary in seconds.
type Track struct {
	Title string `json:"title"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Resolved reports whether the track end has been filled in.
func (t Track) Resolved() bool {
	return t.End != Unset
}

// Tracklist describes an album and its tracks in order.
type Tracklist struct {
	AlbumName  string  `json:"album_name"`
	AlbumYear  int     `json:"album_year"`
	ArtistName string  `json:"artist_name"`
	Extractor  string  `json:"extractor"`
	Tracks     []Track `json:"tracks"`
}

// Overrides are caller-supplied album fields applied after extraction.
// Empty strings and a zero year leave the inferred value in place.
type Overrides struct {
	AlbumName  string
	ArtistName string
	AlbumYear  int
}

// New returns an empty tracklist.
func New() *Tracklist {
	return &Tracklist{Tracks: []Track{}}
}

// Add appends a track and returns its index.
func (tl *Tracklist) Add(title string, start, end int) int {
	tl.Tracks = append(tl.Tracks, Track{Title: title, Start: start, End: end})
	return len(tl.Tracks) - 1
}

// Len returns the number of tracks.
func (tl *Tracklist) Len() int {
	if tl == nil {
		return 0
	}
	return len(tl.Tracks)
}

// Empty reports whether no tracks were found. A nil tracklist is empty.
func (tl *Tracklist) Empty() bool {
	return tl.Len() == 0
}

// Last returns a pointer to the final track, or nil when empty.
func (tl *Tracklist) Last() *Track {
	if tl.Empty() {
		return nil
	}
	return &tl.Tracks[len(tl.Tracks)-1]
}

// AllTracksNumbered reports whether every title already begins with a digit,
// in which case filenames do not receive a generated index.
func (tl *Tracklist) AllTracksNumbered() bool {
	for _, track := range tl.Tracks {
		if track.Title == "" || track.Title[0] < '0' || track.Title[0] > '9' {
			return false
		}
	}
	return true
}

// TotalSeconds returns the end of the last track.
func (tl *Tracklist) TotalSeconds() int {
	last := tl.Last()
	if last == nil || !last.Resolved() {
		return 0
	}
	return last.End
}

// Validate checks the post-extraction invariant: at least one track, and
// every end resolved and not before its start. Ordering between tracks is
// expected but not enforced.
func (tl *Tracklist) Validate() error {
	if tl.Empty() {
		return ErrEmpty
	}
	for i, track := range tl.Tracks {
		if !track.Resolved() {
			return fmt.Errorf("track %d %q: %w", i+1, track.Title, ErrUnresolved)
		}
		if track.Start < 0 {
			return fmt.Errorf("track %d %q: negative start %d", i+1, track.Title, track.Start)
		}
		if track.End < track.Start {
			return fmt.Errorf("track %d %q: end %d before start %d", i+1, track.Title, track.End, track.Start)
		}
	}
	return nil
}

// ApplyOverrides overwrites album fields with any non-empty override.
func (tl *Tracklist) ApplyOverrides(o Overrides) {
	if name := strings.TrimSpace(o.AlbumName); name != "" {
		tl.AlbumName = name
	}
	if artist := strings.TrimSpace(o.ArtistName); artist != "" {
		tl.ArtistName = artist
	}
	if o.AlbumYear != 0 {
		tl.AlbumYear = o.AlbumYear
	}
}

// Clone returns a deep copy.
func (tl *Tracklist) Clone() *Tracklist {
	if tl == nil {
		return nil
	}
	out := *tl
	out.Tracks = append([]Track(nil), tl.Tracks...)
	return &out
}
