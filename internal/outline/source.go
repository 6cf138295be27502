package outline

import "fmt"

// Source supplies the raw text of a note by path.
type Source interface {
	ReadNote(path string) (string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(path string) (string, error)

// ReadNote calls f(path).
func (f SourceFunc) ReadNote(path string) (string, error) {
	return f(path)
}

// ReadError reports that a note's content could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read note %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

func read(src Source, path string) (string, error) {
	text, err := src.ReadNote(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	return text, nil
}

// Load reads the note at path and indexes its headings.
// Read failures are returned as *ReadError.
func Load(src Source, path string) ([]Entry, string, error) {
	text, err := read(src, path)
	if err != nil {
		return nil, "", err
	}
	return IndexHeadings(text), text, nil
}

// Resolver attributes a note's mentions to headings.
type Resolver struct {
	Source Source

	// Enabled turns heading resolution on. When false every lookup
	// returns no headings without reading anything.
	Enabled bool

	Mode Mode
}

// HeadingsForFile returns the headings governing the given mention lines of
// the note at path.
func (r *Resolver) HeadingsForFile(path string, mentionLines []int) ([]string, error) {
	if !r.Enabled || len(mentionLines) == 0 {
		return nil, nil
	}
	entries, _, err := Load(r.Source, path)
	if err != nil {
		return nil, err
	}
	return ResolveMentions(entries, mentionLines, r.Mode), nil
}

// HeadingsForToken locates token in the note at path and returns the
// headings governing each line it occurs on. An empty token searches for
// the wikilink to activeName.
func (r *Resolver) HeadingsForToken(path, token, activeName string) ([]string, error) {
	if !r.Enabled {
		return nil, nil
	}
	entries, text, err := Load(r.Source, path)
	if err != nil {
		return nil, err
	}
	return ResolveMentions(entries, FindTokenLines(text, token, activeName), r.Mode), nil
}
