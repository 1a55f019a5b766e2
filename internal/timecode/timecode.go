// Package timecode converts human-readable timestamps into whole seconds.
//
// ParseMoment handles the two-part stamps found in track listings ("3:07"),
// where the left side is always minutes. ParseClock handles the longer
// durations reported for whole assets ("1:02:03").
package timecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed reports a timestamp that is not made of numeric parts.
var ErrMalformed = errors.New("malformed timestamp")

// ParseMoment converts "M:SS" into minutes*60 + seconds. There is no hour
// support; "75:10" is 75 minutes.
func ParseMoment(value string) (int, error) {
	left, right, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || strings.Contains(right, ":") {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, value)
	}
	minutes, err := parsePart(left)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, value)
	}
	seconds, err := parsePart(right)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, value)
	}
	return minutes*60 + seconds, nil
}

// ParseClock converts "SS", "M:SS" or "H:MM:SS" into seconds.
func ParseClock(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty", ErrMalformed)
	}
	parts := strings.Split(trimmed, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, value)
	}
	total := 0
	for _, part := range parts {
		n, err := parsePart(part)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformed, value)
		}
		total = total*60 + n
	}
	return total, nil
}

// FormatSeconds renders seconds as "M:SS", or "H:MM:SS" past the hour.
func FormatSeconds(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%s%d:%02d:%02d", sign, hours, minutes, secs)
	}
	return fmt.Sprintf("%s%d:%02d", sign, minutes, secs)
}

// FormatClock renders seconds as "H:MM:SS" regardless of magnitude.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

func parsePart(part string) (int, error) {
	part = strings.TrimSpace(part)
	if part == "" {
		return 0, ErrMalformed
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return 0, ErrMalformed
		}
	}
	return strconv.Atoi(part)
}
