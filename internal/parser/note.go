package parser

// Note is the metadata extracted from one markdown file.
type Note struct {
	// Path is vault-relative and slash-separated, e.g. "notes/Foo.md".
	Path string

	// Frontmatter is nil when the note has none or it failed to parse.
	Frontmatter *Frontmatter

	// FrontmatterErr records a YAML error. The rest of the note is still usable.
	FrontmatterErr error

	Tags  []Tag
	Links []Link
}

// ParseNote extracts frontmatter, inline tags and links from content.
func ParseNote(path, content string) *Note {
	fm, err := ParseFrontmatter(content)
	return &Note{
		Path:           path,
		Frontmatter:    fm,
		FrontmatterErr: err,
		Tags:           ExtractTags(content),
		Links:          ExtractLinks(content),
	}
}
