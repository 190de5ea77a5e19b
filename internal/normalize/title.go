// Package normalize holds the field mapping rules shared by every source.
package normalize

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// titleRegex strips a leading "N:" or "Episode N:" and a trailing "| ..." suffix.
var titleRegex = regexp.MustCompile(`^(?:(?:Episode)?\s?[0-9]+:+\s+)?(.+?)(?:(\s+\|+.*)|\s+)?$`)

// PlainTitle returns the episode title without its numbering or show suffix.
// Titles the pattern cannot match are returned unchanged.
func PlainTitle(title string) string {
	m := titleRegex.FindStringSubmatch(title)
	if m == nil {
		return title
	}
	return m[1]
}

// Duration formats a number of seconds as HH:MM:SS.
func Duration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes, secs := seconds/60, seconds%60
	hours, minutes := minutes/60, minutes%60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// Padded returns the episode number zero padded to four digits.
func Padded(episode int) string {
	return fmt.Sprintf("%04d", episode)
}

// Tags trims and sorts tag labels, dropping empty ones.
func Tags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	slices.Sort(tags)
	return tags
}
