package cuesheet

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleSheet = `REM GENRE Electronic
REM DATE 1998
PERFORMER "The Artist"
TITLE "Live Set"
FILE "live set.wav" WAVE
  TRACK 01 AUDIO
    TITLE "Opening"
    PERFORMER "The Artist"
    INDEX 01 00:00:00
  TRACK 02 AUDIO
    TITLE "Second Piece"
    INDEX 00 04:58:10
    INDEX 01 05:01:32
  track 03 audio
    title Closing
    index 01 72:10:00
`

func TestParse(t *testing.T) {
	sheet, err := Parse(strings.NewReader(sampleSheet))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if sheet.Performer != "The Artist" || sheet.Title != "Live Set" {
		t.Fatalf("unexpected header: %#v", sheet)
	}
	if len(sheet.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(sheet.Files))
	}
	file := sheet.Files[0]
	if file.Name != "live set.wav" || file.Type != "WAVE" {
		t.Fatalf("unexpected file: %#v", file)
	}
	if len(file.Tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(file.Tracks))
	}

	second := file.Tracks[1]
	if second.Number != 2 || second.Title != "Second Piece" || second.Type != "AUDIO" {
		t.Fatalf("unexpected second track: %#v", second)
	}
	if len(second.Indexes) != 2 {
		t.Fatalf("expected 2 indexes, got %d", len(second.Indexes))
	}
	if got := second.Indexes[1].Time; got != (Time{Min: 5, Sec: 1, Frame: 32}) {
		t.Fatalf("unexpected index time: %#v", got)
	}
	if second.Indexes[0].Time.Seconds() != 298 {
		t.Fatalf("unexpected seconds: %d", second.Indexes[0].Time.Seconds())
	}

	third := file.Tracks[2]
	if third.Title != "Closing" || third.Indexes[0].Time.Seconds() != 72*60+10 {
		t.Fatalf("unexpected third track: %#v", third)
	}
	if sheet.Performer != "The Artist" || file.Tracks[0].Performer != "The Artist" {
		t.Fatalf("track performer leaked into sheet: %#v", sheet)
	}
}

func TestParseWindows1252(t *testing.T) {
	raw := []byte("PERFORMER \"Beyonc\xe9\"\r\nTITLE \"Caf\xe9\"\r\nFILE \"a.wav\" WAVE\r\n  TRACK 01 AUDIO\r\n    TITLE \"Na\xefve\"\r\n    INDEX 01 00:00:00\r\n")
	sheet, err := Parse(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if sheet.Performer != "Beyoncé" || sheet.Title != "Café" {
		t.Fatalf("unexpected decoding: %q %q", sheet.Performer, sheet.Title)
	}
	if sheet.Files[0].Tracks[0].Title != "Naïve" {
		t.Fatalf("unexpected track title: %q", sheet.Files[0].Tracks[0].Title)
	}
}

func TestParseStripsBOM(t *testing.T) {
	sheet, err := Parse(strings.NewReader("\xEF\xBB\xBFTITLE \"Album\"\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if sheet.Title != "Album" {
		t.Fatalf("unexpected title: %q", sheet.Title)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"track before file": "TRACK 01 AUDIO\n",
		"index outside":     "FILE \"a.wav\" WAVE\nINDEX 01 00:00:00\n",
		"bad index time":    "FILE \"a.wav\" WAVE\nTRACK 01 AUDIO\nINDEX 01 0a:00:00\n",
		"bad track number":  "FILE \"a.wav\" WAVE\nTRACK xx AUDIO\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(input)); !errors.Is(err, ErrSyntax) {
				t.Fatalf("expected ErrSyntax, got %v", err)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "album.cue")
	if err := os.WriteFile(path, []byte(sampleSheet), 0o644); err != nil {
		t.Fatalf("write cue: %v", err)
	}
	sheet, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if len(sheet.Files[0].Tracks) != 3 {
		t.Fatalf("unexpected track count: %d", len(sheet.Files[0].Tracks))
	}
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.cue")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
