package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// Tag is an inline #tag found in a note body.
type Tag struct {
	// Name is the tag without its leading '#'.
	Name string
	// Line is the 0-indexed line the tag occurs on.
	Line int
}

// tagPattern matches a #tag at the start of a line or after whitespace.
// Nested tags use '/', e.g. #project/alpha.
var tagPattern = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_/\-]+)`)

// ExtractTags returns the inline tags of content in order of appearance.
// Frontmatter, fenced code and inline code are skipped, and purely numeric
// tags like #123 are not tags.
func ExtractTags(content string) []Tag {
	var tags []Tag
	scanLines(content, true, func(lineNum int, line string) {
		for _, m := range tagPattern.FindAllStringSubmatch(line, -1) {
			name := strings.TrimRight(m[1], "/")
			if name == "" || isNumeric(name) {
				continue
			}
			tags = append(tags, Tag{Name: name, Line: lineNum})
		}
	})
	return tags
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
