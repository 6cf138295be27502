package moc

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"github.com/aidanlsb/automoc/internal/config"
	"github.com/aidanlsb/automoc/internal/paths"
	"github.com/aidanlsb/automoc/internal/resolver"
	"github.com/aidanlsb/automoc/internal/wikilink"
)

// Entry is one note to link from the active note.
type Entry struct {
	Path     string
	Headings []string
	Alias    string
}

// Formatter renders link lines for the active note.
type Formatter struct {
	Settings *config.VaultConfig
	Resolver *resolver.Resolver
	Active   string
}

// Format returns one line per heading of each entry, or a single line for
// an entry without headings. Every line ends in "\n". Ordered list numbers
// advance once per entry.
func (f *Formatter) Format(entries []Entry) []string {
	var lines []string
	counter := 1
	for _, en := range entries {
		prefix := f.prefix(counter)
		if len(en.Headings) == 0 {
			lines = append(lines, prefix+f.Link(en.Path, "", en.Alias)+"\n")
		}
		for _, h := range en.Headings {
			lines = append(lines, prefix+f.Link(en.Path, h, en.Alias)+"\n")
		}
		counter++
	}
	return lines
}

func (f *Formatter) prefix(n int) string {
	switch f.Settings.ImportAsList {
	case config.ListUnordered:
		return "* "
	case config.ListCheckbox:
		return "- [ ] "
	case config.ListOrdered:
		return strconv.Itoa(n) + f.Settings.OrderedListSeparator + " "
	default:
		return ""
	}
}

// Link renders a link from the active note to target. heading and alias
// are optional.
func (f *Formatter) Link(target, heading, alias string) string {
	if f.Settings.LinkFormat == config.FormatMarkdown {
		return f.markdownLink(target, heading, alias)
	}
	text := strings.TrimSuffix(target, ".md")
	if f.Resolver != nil {
		text = f.Resolver.LinkText(target)
	}
	return wikilink.Format(text, heading, alias)
}

func (f *Formatter) markdownLink(target, heading, alias string) string {
	text := alias
	if text == "" {
		text = paths.NoteName(target)
	}
	dest := escapePath(paths.Relative(f.Active, target))
	if heading != "" {
		dest += "#" + f.anchor(heading)
	}
	return "[" + text + "](" + dest + ")"
}

func (f *Formatter) anchor(heading string) string {
	if f.Settings.AnchorStyle == config.AnchorSlug {
		return slug.Make(heading)
	}
	return url.PathEscape(heading)
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// Insert inserts block before the 0-indexed line of text. A negative line,
// or one past the last line, appends block at the end; text not ending in
// a newline gets one first.
func Insert(text string, line int, block string) string {
	if block == "" {
		return text
	}
	if line >= 0 {
		offset := 0
		for i := 0; i < line; i++ {
			next := strings.IndexByte(text[offset:], '\n')
			if next < 0 {
				offset = -1
				break
			}
			offset += next + 1
		}
		if offset >= 0 && offset < len(text) {
			return text[:offset] + block + text[offset:]
		}
	}
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text + block
}
