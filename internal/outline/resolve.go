package outline

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Mode selects which headings may govern a mention.
type Mode int

const (
	// Nearest picks the closest heading in either direction.
	Nearest Mode = iota
	// NearestPrecedingOnly picks the closest heading at or above the mention.
	NearestPrecedingOnly
)

// Unreachable is the distance of a line that cannot govern a mention.
const Unreachable = math.MaxInt

func (m Mode) String() string {
	switch m {
	case Nearest:
		return "nearest"
	case NearestPrecedingOnly:
		return "preceding"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a heading mode name as written in vault config.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest":
		return Nearest, nil
	case "preceding", "preceding-only", "before":
		return NearestPrecedingOnly, nil
	default:
		return Nearest, fmt.Errorf("unknown heading mode %q (want nearest or preceding)", s)
	}
}

// Distance returns the line distance between entry i and mentionLine,
// or Unreachable when entry i is not eligible under mode.
func Distance(entries []Entry, i, mentionLine int, mode Mode) int {
	if !entries[i].IsHeading {
		return Unreachable
	}
	if mode == NearestPrecedingOnly {
		if i > mentionLine {
			return Unreachable
		}
		return mentionLine - i
	}
	if i > mentionLine {
		return i - mentionLine
	}
	return mentionLine - i
}

// ClosestHeading returns the title of the heading governing mentionLine.
// The smallest distance wins and the earliest line breaks ties. ok is false
// when no heading is eligible.
//
// The winning entry's title is re-cleaned in place.
func ClosestHeading(entries []Entry, mentionLine int, mode Mode) (title string, ok bool) {
	best, bestDist := -1, Unreachable
	for i := range entries {
		if d := Distance(entries, i, mentionLine, mode); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return "", false
	}

	entries[best].Title = CleanTitle(entries[best].Title)
	return entries[best].Title, true
}

// ResolveMentions resolves every mention line in ascending order and returns
// the heading titles found, skipping mentions with no heading (or an empty one).
// mentionLines is not modified.
func ResolveMentions(entries []Entry, mentionLines []int, mode Mode) []string {
	if len(entries) == 0 || len(mentionLines) == 0 {
		return nil
	}

	sorted := append([]int(nil), mentionLines...)
	sort.Ints(sorted)

	var titles []string
	for _, line := range sorted {
		title, ok := ClosestHeading(entries, line, mode)
		if !ok || title == "" {
			continue
		}
		titles = append(titles, title)
	}
	return titles
}
