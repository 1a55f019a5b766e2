package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tracksplit/internal/config"
	"tracksplit/internal/services"
	"tracksplit/internal/splitter"
)

// requestFlags holds the per-request overrides shared by split and plan.
type requestFlags struct {
	album         string
	artist        string
	year          int
	tracklistFile string
	cueFile       string
	output        string
	jsonOutput    bool
}

func (f *requestFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.album, "album", "", "Album name written to every track")
	flags.StringVar(&f.artist, "artist", "", "Artist name written to every track")
	flags.IntVar(&f.year, "year", 0, "Album year written to every track")
	flags.StringVar(&f.tracklistFile, "tracklist-file", "", "Read the tracklist from this file instead of the source description")
	flags.StringVar(&f.cueFile, "cue", "", "Cue sheet consulted after the built-in extractor")
	flags.StringVarP(&f.output, "output", "o", "", "Directory receiving the tracks")
	flags.BoolVar(&f.jsonOutput, "json", false, "Output as JSON")
}

func (f *requestFlags) request() (splitter.Request, error) {
	req := splitter.Request{
		AlbumName:  strings.TrimSpace(f.album),
		ArtistName: strings.TrimSpace(f.artist),
		AlbumYear:  f.year,
	}
	if f.year < 0 {
		return req, services.Wrap(services.ErrValidation, "cli", "flags", fmt.Sprintf("invalid --year %d", f.year), nil)
	}
	if path := strings.TrimSpace(f.tracklistFile); path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return req, fmt.Errorf("resolve tracklist path: %w", err)
		}
		data, err := os.ReadFile(expanded)
		if err != nil {
			return req, services.Wrap(services.ErrNotFound, "cli", "tracklist", expanded, err)
		}
		req.TracklistData = string(data)
	}
	if out := strings.TrimSpace(f.output); out != "" {
		expanded, err := config.ExpandPath(out)
		if err != nil {
			return req, fmt.Errorf("resolve output path: %w", err)
		}
		req.OutputDir = expanded
	}
	return req, nil
}
