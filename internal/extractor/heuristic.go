package extractor

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"tracksplit/internal/timecode"
	"tracksplit/internal/tracklist"
)

// HeuristicName identifies the free-text extractor.
const HeuristicName = "DEFAULT"

// TimingMode says how free-text timestamps are read.
type TimingMode int

const (
	// ModeStart treats each timestamp as the absolute start of its track.
	ModeStart TimingMode = iota
	// ModeDuration treats each timestamp as the length of its track.
	ModeDuration
)

func (m TimingMode) String() string {
	if m == ModeDuration {
		return "duration"
	}
	return "start"
}

// stampRegex matches a timestamp optionally followed, within five
// characters, by a second one ("0:00 - 2:30"). Only the first is used.
var stampRegex = regexp.MustCompile(`(\d{1,2}:\d{1,2})(?:.{0,5}?\d{1,2}:\d{1,2})?`)

// Heuristic infers a tracklist from free text where each line carries a
// title and a timestamp in either order.
type Heuristic struct{}

// NewHeuristic returns the free-text extractor.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Name implements Extractor.
func (h *Heuristic) Name() string {
	return HeuristicName
}

// Extract implements Extractor. It declines when the text holds no
// timestamps.
func (h *Heuristic) Extract(_ context.Context, ec *Context) (Decision, error) {
	entries := ScanEntries(ec.Asset.EffectiveDescription())
	if len(entries) == 0 {
		return Decline, nil
	}

	tl := ec.Tracklist
	mode := ModeStart
	for i, entry := range entries {
		seconds, err := timecode.ParseMoment(entry.Stamp)
		if err != nil {
			return Decline, err
		}
		if i == 0 && seconds != 0 {
			mode = ModeDuration
		}

		switch mode {
		case ModeStart:
			if i > 0 {
				tl.Tracks[i-1].End = seconds
			}
			tl.Add(entry.Title, seconds, tracklist.Unset)
		case ModeDuration:
			start := 0
			if i > 0 {
				start = tl.Tracks[i-1].End
			}
			tl.Add(entry.Title, start, start+seconds)
		}
	}

	if mode == ModeStart {
		tl.Last().End = ec.Asset.DurationSeconds
	}
	tl.Extractor = HeuristicName
	ec.Messagef("Extractor %q read timestamps as %s offsets.", HeuristicName, mode)
	return Halt, nil
}

// Entry is one timestamped title found in free text.
type Entry struct {
	Title string
	Stamp string
}

// ScanEntries finds every timestamped title in text, in order. Lines are
// scanned independently. A line with one timestamp takes its title from the
// text on both sides. A line with several timestamps takes titles from the
// text after each timestamp when the line opens with one, otherwise from the
// text before each, the last also keeping the trailing text.
func ScanEntries(text string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		matches := stampRegex.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 {
			continue
		}
		leading := strings.TrimSpace(line[:matches[0][0]]) == ""
		for i, m := range matches {
			var prefix, suffix string
			if len(matches) == 1 {
				prefix, suffix = line[:m[0]], line[m[1]:]
			} else if leading {
				end := len(line)
				if i+1 < len(matches) {
					end = matches[i+1][0]
				}
				suffix = line[m[1]:end]
			} else {
				start := 0
				if i > 0 {
					start = matches[i-1][1]
				}
				prefix = line[start:m[0]]
				if i == len(matches)-1 {
					suffix = line[m[1]:]
				}
			}
			entries = append(entries, Entry{Title: cleanTitle(prefix + suffix), Stamp: line[m[2]:m[3]]})
		}
	}
	return entries
}

func cleanTitle(raw string) string {
	return strings.TrimLeftFunc(strings.TrimSpace(raw), func(r rune) bool {
		return r == '-' || r == ':' || unicode.IsSpace(r)
	})
}
