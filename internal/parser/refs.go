package parser

import (
	"sort"

	"github.com/aidanlsb/automoc/internal/wikilink"
)

// Link is an outgoing link from a note to another note.
type Link struct {
	// Target is the note part as written: "Foo", "dir/Foo" or "../Foo.md".
	Target string
	// Heading is the "#heading" part, if any.
	Heading string
	// Display is the alias of a wikilink or the text of a markdown link.
	Display string
	// Line is the 0-indexed line the link occurs on.
	Line int
	// Embed marks "![[...]]" and "![](...)" forms.
	Embed bool
	// Markdown marks [text](dest) links.
	Markdown bool
}

// ExtractLinks returns every link to another note in content, ordered by line.
// Wikilinks in frontmatter count; links inside code do not. Same-note
// heading links ("[[#Heading]]") are skipped.
func ExtractLinks(content string) []Link {
	var links []Link

	scanLines(content, false, func(lineNum int, line string) {
		for _, m := range wikilink.FindAllInLine(line, false) {
			if m.Note == "" {
				continue
			}
			display := ""
			if m.DisplayText != nil {
				display = *m.DisplayText
			}
			links = append(links, Link{
				Target:  m.Note,
				Heading: m.Heading,
				Display: display,
				Line:    lineNum,
				Embed:   m.Embed,
			})
		}
	})

	links = append(links, extractMarkdownLinks(content)...)
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Line < links[j].Line
	})
	return links
}
