package extractor

import (
	"context"
	"path/filepath"

	"tracksplit/internal/cuesheet"
	"tracksplit/internal/tracklist"
)

// CueName identifies a cue extractor that is not bound to a file.
const CueName = "CUE-EXTRACTOR"

// SheetLoader produces the cue sheet a Cue extractor reads.
type SheetLoader func(ctx context.Context) (*cuesheet.Sheet, error)

// Cue reads boundaries from a cue sheet. It is terminal: the chain stops
// after it whether or not any tracks were found.
type Cue struct {
	name string
	load SheetLoader
}

// NewCue returns a cue extractor with a custom loader.
func NewCue(name string, load SheetLoader) *Cue {
	if name == "" {
		name = CueName
	}
	return &Cue{name: name, load: load}
}

// NewCueFile returns a cue extractor bound to the sheet at path.
func NewCueFile(path string) *Cue {
	return NewCue(CueName+"-"+filepath.Base(path), func(context.Context) (*cuesheet.Sheet, error) {
		return cuesheet.ParseFile(path)
	})
}

// NewCueSheet returns a cue extractor over an already parsed sheet.
func NewCueSheet(sheet *cuesheet.Sheet) *Cue {
	return NewCue(CueName, func(context.Context) (*cuesheet.Sheet, error) {
		return sheet, nil
	})
}

// Name implements Extractor.
func (c *Cue) Name() string {
	return c.name
}

// Extract implements Extractor. Only the first FILE block is read; each
// track starts at its first index and ends where the next one starts.
func (c *Cue) Extract(ctx context.Context, ec *Context) (Decision, error) {
	sheet, err := c.load(ctx)
	if err != nil {
		return Halt, err
	}

	tl := ec.Tracklist
	tl.Extractor = c.name
	if sheet == nil {
		return Halt, nil
	}
	tl.ArtistName = sheet.Performer
	tl.AlbumName = sheet.Title
	if len(sheet.Files) == 0 {
		return Halt, nil
	}

	for i, track := range sheet.Files[0].Tracks {
		start := 0
		if len(track.Indexes) > 0 {
			start = track.Indexes[0].Time.Seconds()
		}
		tl.Add(track.Title, start, tracklist.Unset)
		if i > 0 {
			tl.Tracks[i-1].End = start
		}
	}
	if last := tl.Last(); last != nil {
		last.End = ec.Asset.DurationSeconds
	}
	return Halt, nil
}
