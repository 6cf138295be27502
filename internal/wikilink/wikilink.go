// Package wikilink provides canonical parsing, scanning and formatting of
// wikilinks.
//
// Wikilink grammar:
//
//	[[target]]
//	[[target#heading]]
//	[[target|display text]]
//	[[target#heading|display text]]
//
// Notes:
//   - The target is trimmed of surrounding whitespace.
//   - The display text (if present) is also trimmed.
//   - This package does NOT understand markdown code fences; higher-level
//     parsers decide whether scanning is enabled for a given region.
package wikilink

import (
	"regexp"
	"strings"
)

// Match represents a wikilink found in a string (typically a single line).
type Match struct {
	// Target is everything before the '|', e.g. "notes/foo#Heading".
	Target string
	// Note and Heading are Target split on the first '#'.
	Note        string
	Heading     string
	DisplayText *string
	// Embed is true for the "![[...]]" form.
	Embed   bool
	Start   int
	End     int
	Literal string
}

// re matches [[target]] or [[target|display]].
// The target cannot contain [ or ] to avoid matching array syntax like [[[ref]]].
var re = regexp.MustCompile(`\[\[([^\]\[|]+)(?:\|([^\]]+))?\]\]`)

// Split splits a link target into its note and heading parts.
// "foo#Bar" -> ("foo", "Bar"); "#Bar" -> ("", "Bar").
func Split(target string) (note, heading string) {
	note, heading, _ = strings.Cut(target, "#")
	return strings.TrimSpace(note), strings.TrimSpace(heading)
}

// ParseExact parses a string that is exactly a wikilink literal, returning its target and optional display text.
func ParseExact(s string) (target string, display *string, ok bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "!")
	if !strings.HasPrefix(s, "[[") || !strings.HasSuffix(s, "]]") {
		return "", nil, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "[["), "]]")
	parts := strings.SplitN(inner, "|", 2)
	target = strings.TrimSpace(parts[0])
	if target == "" {
		return "", nil, false
	}
	if len(parts) == 2 {
		d := strings.TrimSpace(parts[1])
		display = &d
	}
	return target, display, true
}

// FindAllInLine finds wikilinks in a single line.
//
// If allowTriple is false, matches preceded by '[' are skipped to avoid array syntax like [[[ref]]].
func FindAllInLine(line string, allowTriple bool) []Match {
	var out []Match

	for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
		if len(m) < 4 {
			continue
		}
		start, end := m[0], m[1]

		if !allowTriple && start > 0 && line[start-1] == '[' {
			continue
		}

		target := strings.TrimSpace(line[m[2]:m[3]])
		if target == "" {
			continue
		}

		var display *string
		if len(m) >= 6 && m[4] >= 0 && m[5] >= 0 {
			d := strings.TrimSpace(line[m[4]:m[5]])
			display = &d
		}

		note, heading := Split(target)
		out = append(out, Match{
			Target:      target,
			Note:        note,
			Heading:     heading,
			DisplayText: display,
			Embed:       start > 0 && line[start-1] == '!',
			Start:       start,
			End:         end,
			Literal:     line[start:end],
		})
	}

	return out
}

// ScanAt scans a wikilink starting at `start` in `input`.
// `start` must point at the first '[' of a "[[" sequence.
// Returns the end offset (exclusive), target, literal, and ok.
func ScanAt(input string, start int) (end int, target string, literal string, ok bool) {
	if start < 0 || start+1 >= len(input) {
		return 0, "", "", false
	}
	if input[start] != '[' || input[start+1] != '[' {
		return 0, "", "", false
	}

	for i := start + 2; i+1 < len(input); i++ {
		if input[i] == ']' && input[i+1] == ']' {
			end = i + 2
			literal = input[start:end]
			t, _, parsed := ParseExact(literal)
			if !parsed {
				return 0, "", "", false
			}
			return end, t, literal, true
		}
	}
	return 0, "", "", false
}

// headingLinkChars cannot appear in the heading part of a wikilink. Obsidian
// treats them as spaces when matching headings.
var headingLinkChars = strings.NewReplacer("|", " ", "#", " ", "^", " ", "[", " ", "]", " ")

// LinkHeading returns heading as it can be written after '#' in a wikilink.
func LinkHeading(heading string) string {
	return strings.Join(strings.Fields(headingLinkChars.Replace(heading)), " ")
}

// Format renders a wikilink. heading and display are optional. The heading
// goes through LinkHeading and brackets that would close the link early are
// dropped from display.
func Format(note, heading, display string) string {
	var b strings.Builder
	b.WriteString("[[")
	b.WriteString(note)
	if h := LinkHeading(heading); h != "" {
		b.WriteByte('#')
		b.WriteString(h)
	}
	if display = strings.NewReplacer("[[", "", "]]", "").Replace(display); display != "" {
		b.WriteByte('|')
		b.WriteString(display)
	}
	b.WriteString("]]")
	return b.String()
}
