package parser

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// schemePattern matches a URL scheme such as "https:" or "obsidian:".
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)

// extractMarkdownLinks finds [text](dest) links and ![alt](dest) embeds that
// point at local notes, using goldmark so code spans and blocks are honored.
func extractMarkdownLinks(content string) []Link {
	source := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	// Pre-compute line numbers for byte offsets
	lineStarts := computeLineStarts(content)

	var links []Link
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		var dest string
		embed := false
		switch node := n.(type) {
		case *ast.Link:
			dest = string(node.Destination)
		case *ast.Image:
			dest = string(node.Destination)
			embed = true
		default:
			return ast.WalkContinue, nil
		}

		target, heading, ok := localTarget(dest)
		if !ok {
			return ast.WalkContinue, nil
		}

		line := 0
		if offset := nodeOffset(n); offset >= 0 {
			line = offsetToLine(lineStarts, offset)
		}

		links = append(links, Link{
			Target:   target,
			Heading:  heading,
			Display:  strings.TrimSpace(nodeText(n, source)),
			Line:     line,
			Embed:    embed,
			Markdown: true,
		})
		return ast.WalkSkipChildren, nil
	})

	return links
}

// localTarget splits a link destination into note and heading, rejecting
// external URLs, same-note anchors and non-markdown attachments.
func localTarget(dest string) (target, heading string, ok bool) {
	dest = strings.TrimSpace(dest)
	if dest == "" || strings.HasPrefix(dest, "#") || schemePattern.MatchString(dest) {
		return "", "", false
	}

	note, heading, _ := strings.Cut(dest, "#")
	note = unescapePath(note)
	heading = unescapePath(heading)

	if ext := path.Ext(note); ext != "" && ext != ".md" {
		return "", "", false
	}
	if note == "" {
		return "", "", false
	}
	return note, heading, true
}

// unescapePath decodes %XX sequences, leaving malformed input as written.
func unescapePath(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

// nodeText concatenates the text segments under n.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// nodeOffset returns a byte offset inside the line an inline node sits on:
// its first text segment, or else the first line of the enclosing block.
func nodeOffset(n ast.Node) int {
	offset := -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			offset = t.Segment.Start
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if offset >= 0 {
		return offset
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == ast.TypeBlock && p.Lines().Len() > 0 {
			return p.Lines().At(0).Start
		}
	}
	return -1
}

// computeLineStarts computes the byte offset of each line start.
func computeLineStarts(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetToLine converts a byte offset to a 0-indexed line number.
func offsetToLine(lineStarts []int, offset int) int {
	for i := len(lineStarts) - 1; i >= 0; i-- {
		if lineStarts[i] <= offset {
			return i
		}
	}
	return 0
}
