package parser

import "strings"

// fenceState tracks whether a line scan is inside a fenced code block.
type fenceState struct {
	inFence  bool
	fenceCh  byte
	fenceLen int
}

// fenceMarker reports whether line opens or closes a code fence.
// Leading indentation and blockquote prefixes are tolerated.
func fenceMarker(line string) (ch byte, n int, ok bool) {
	s := strings.TrimLeft(line, " \t")
	for strings.HasPrefix(s, ">") {
		s = strings.TrimLeft(strings.TrimPrefix(s, ">"), " \t")
	}
	if len(s) < 3 || (s[0] != '`' && s[0] != '~') {
		return 0, 0, false
	}
	ch = s[0]
	for n < len(s) && s[n] == ch {
		n++
	}
	return ch, n, n >= 3
}

// update consumes one line and reports whether it was a fence marker.
func (fs *fenceState) update(line string) bool {
	ch, n, ok := fenceMarker(line)
	if !ok {
		return false
	}
	if !fs.inFence {
		fs.inFence, fs.fenceCh, fs.fenceLen = true, ch, n
		return true
	}
	if ch == fs.fenceCh && n >= fs.fenceLen {
		*fs = fenceState{}
		return true
	}
	return false
}

// scanLines calls fn for every line outside fenced code blocks, with inline
// code spans blanked out. Line numbers are 0-indexed. When skipFrontmatter
// is set, a closed leading frontmatter block is skipped too.
func scanLines(content string, skipFrontmatter bool, fn func(lineNum int, line string)) {
	lines := strings.Split(content, "\n")

	first := 0
	if skipFrontmatter {
		if _, end, ok := FrontmatterBounds(lines); ok && end > 0 {
			first = end + 1
		}
	}

	var state fenceState
	for i := first; i < len(lines); i++ {
		if state.update(lines[i]) || state.inFence {
			continue
		}
		fn(i, removeInlineCode(lines[i]))
	}
}

// removeInlineCode replaces inline code spans with spaces so byte positions
// stay stable. Handles multi-backtick spans like ``a `b` c``.
func removeInlineCode(line string) string {
	if !strings.Contains(line, "`") {
		return line
	}
	out := []byte(line)
	i := 0
	for i < len(out) {
		if out[i] != '`' {
			i++
			continue
		}
		start := i
		for i < len(out) && out[i] == '`' {
			i++
		}
		openLen := i - start

		for j := i; j < len(out); {
			if out[j] != '`' {
				j++
				continue
			}
			k := j
			for k < len(out) && out[k] == '`' {
				k++
			}
			if k-j == openLen {
				for p := start; p < k; p++ {
					out[p] = ' '
				}
				i = k
				break
			}
			j = k
		}
	}
	return string(out)
}
