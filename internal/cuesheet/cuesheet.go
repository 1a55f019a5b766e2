// Package cuesheet parses text CUE sheets into performer, title, files and
// indexed tracks.
//
// Only the commands needed to place track boundaries are interpreted
// (PERFORMER, TITLE, FILE, TRACK, INDEX). Everything else, REM comments
// included, is skipped. Sheets written by older Windows rippers are often
// Windows-1252 rather than UTF-8; those are decoded before parsing.
package cuesheet

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrSyntax reports a malformed cue sheet line.
var ErrSyntax = errors.New("cue sheet syntax error")

// Sheet is a parsed cue sheet.
type Sheet struct {
	Performer string
	Title     string
	Files     []File
}

// File is one FILE block and the tracks that reference it.
type File struct {
	Name   string
	Type   string
	Tracks []Track
}

// Track is one TRACK entry.
type Track struct {
	Number    int
	Type      string
	Title     string
	Performer string
	Indexes   []Index
}

// Index is one INDEX entry of a track.
type Index struct {
	Number int
	Time   Time
}

// Time is a cue timestamp in minutes, seconds and frames (75 per second).
type Time struct {
	Min   int
	Sec   int
	Frame int
}

// Seconds returns the whole-second offset, ignoring frames.
func (t Time) Seconds() int {
	return t.Min*60 + t.Sec
}

var (
	indexTimeRegex = regexp.MustCompile(`^(\d+):(\d{1,2}):(\d{1,2})$`)
	utf8BOM        = []byte{0xEF, 0xBB, 0xBF}
)

// ParseFile reads and parses the cue sheet at path.
func ParseFile(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cue sheet: %w", err)
	}
	sheet, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse cue sheet %s: %w", path, err)
	}
	return sheet, nil
}

// Parse parses a cue sheet from r.
func Parse(r io.Reader) (*Sheet, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read cue sheet: %w", err)
	}
	content, err := decode(raw)
	if err != nil {
		return nil, err
	}

	sheet := &Sheet{}
	var (
		file  *File
		track *Track
	)

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		command, rest := splitCommand(line)
		switch command {
		case "PERFORMER":
			if track != nil {
				track.Performer = unquote(rest)
			} else {
				sheet.Performer = unquote(rest)
			}
		case "TITLE":
			if track != nil {
				track.Title = unquote(rest)
			} else {
				sheet.Title = unquote(rest)
			}
		case "FILE":
			name, kind := splitFileArgs(rest)
			sheet.Files = append(sheet.Files, File{Name: name, Type: kind})
			file = &sheet.Files[len(sheet.Files)-1]
			track = nil
		case "TRACK":
			if file == nil {
				return nil, fmt.Errorf("%w: line %d: TRACK before FILE", ErrSyntax, lineNo)
			}
			fields := strings.Fields(rest)
			if len(fields) == 0 {
				return nil, fmt.Errorf("%w: line %d: TRACK without number", ErrSyntax, lineNo)
			}
			number, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: track number %q", ErrSyntax, lineNo, fields[0])
			}
			entry := Track{Number: number}
			if len(fields) > 1 {
				entry.Type = strings.ToUpper(fields[1])
			}
			file.Tracks = append(file.Tracks, entry)
			track = &file.Tracks[len(file.Tracks)-1]
		case "INDEX":
			if track == nil {
				return nil, fmt.Errorf("%w: line %d: INDEX outside TRACK", ErrSyntax, lineNo)
			}
			index, err := parseIndex(rest)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, lineNo, err)
			}
			track.Indexes = append(track.Indexes, index)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan cue sheet: %w", err)
	}
	return sheet, nil
}

func decode(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode cue sheet: %w", err)
	}
	return string(decoded), nil
}

func splitCommand(line string) (string, string) {
	command, rest, _ := strings.Cut(line, " ")
	return strings.ToUpper(command), strings.TrimSpace(rest)
}

// splitFileArgs separates `"name with spaces.wav" WAVE` into name and type.
func splitFileArgs(rest string) (string, string) {
	if strings.HasPrefix(rest, `"`) {
		if end := strings.LastIndex(rest, `"`); end > 0 {
			return rest[1:end], strings.ToUpper(strings.TrimSpace(rest[end+1:]))
		}
	}
	idx := strings.LastIndex(rest, " ")
	if idx < 0 {
		return rest, ""
	}
	return strings.TrimSpace(rest[:idx]), strings.ToUpper(strings.TrimSpace(rest[idx+1:]))
}

func parseIndex(rest string) (Index, error) {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return Index{}, fmt.Errorf("INDEX expects number and time, got %q", rest)
	}
	number, err := strconv.Atoi(fields[0])
	if err != nil {
		return Index{}, fmt.Errorf("index number %q", fields[0])
	}
	m := indexTimeRegex.FindStringSubmatch(fields[1])
	if m == nil {
		return Index{}, fmt.Errorf("index time %q", fields[1])
	}
	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	frames, _ := strconv.Atoi(m[3])
	return Index{Number: number, Time: Time{Min: minutes, Sec: seconds, Frame: frames}}, nil
}

func unquote(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return value[1 : len(value)-1]
	}
	return value
}
