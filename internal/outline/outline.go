// Package outline classifies the lines of a note as headings and attributes
// mentions to the heading that governs them.
//
// Everything here is a pure function of its inputs. Line numbers are
// 0-indexed and an entry slice is positional: entries[i] describes line i.
package outline

import (
	"path"
	"regexp"
	"strings"
)

// headingPattern matches an ATX heading at the start of a line.
// Closing sequences and indented headings are not recognized.
var headingPattern = regexp.MustCompile(`^#{1,6}\s.+`)

// headingMarker matches the leading marker run plus one whitespace character.
var headingMarker = regexp.MustCompile(`^#{1,6}\s`)

// Entry describes one line of a note.
type Entry struct {
	// Title is the cleaned heading title. Empty for non-heading lines.
	Title string

	// IsHeading reports whether the line is an ATX heading.
	IsHeading bool
}

// NoHeading is the entry stored for lines that are not headings.
var NoHeading = Entry{}

// SplitLines splits text on '\n'. An empty text has no lines; a text that
// ends with a newline has a trailing empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// IndexHeadings returns one entry per line of text.
func IndexHeadings(text string) []Entry {
	lines := SplitLines(text)
	entries := make([]Entry, len(lines))
	for i, line := range lines {
		if title, ok := ParseHeading(line); ok {
			entries[i] = Entry{Title: title, IsHeading: true}
		}
	}
	return entries
}

// ParseHeading reports whether line is a heading and returns its title.
//
// Every '#' in the title is removed, not only the leading marker:
// "## C# basics" yields "C basics". Callers rely on this when building
// heading links, so it is kept as is.
func ParseHeading(line string) (string, bool) {
	if !headingPattern.MatchString(line) {
		return "", false
	}
	return CleanTitle(headingMarker.ReplaceAllString(line, "")), true
}

// CleanTitle strips every '#' from s and trims surrounding whitespace.
// Cleaning a clean title returns it unchanged.
func CleanTitle(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "#", ""))
}

// DefaultToken returns the wikilink form used to find mentions of a note,
// e.g. "Daily Review.md" -> "[[Daily Review]]".
func DefaultToken(activeName string) string {
	base := path.Base(strings.ReplaceAll(activeName, "\\", "/"))
	return "[[" + strings.TrimSuffix(base, ".md") + "]]"
}

// FindTokenLines returns the ascending line numbers whose text contains token.
// An empty token falls back to DefaultToken(activeName).
//
// Matching is a literal substring test per line, so a token that is a
// substring of a longer one also matches ("#go" matches "#golang").
func FindTokenLines(text, token, activeName string) []int {
	if token == "" {
		token = DefaultToken(activeName)
	}

	var out []int
	for i, line := range SplitLines(text) {
		if strings.Contains(line, token) {
			out = append(out, i)
		}
	}
	return out
}
