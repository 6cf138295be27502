// Package graph defines the read-only view of vault metadata the MOC engine
// queries, and an in-memory implementation built by scanning the vault.
package graph

import (
	"errors"

	"github.com/aidanlsb/automoc/internal/parser"
)

// ErrUnknownNote is returned when a path is not part of the metadata.
var ErrUnknownNote = errors.New("note not in vault metadata")

// Metadata answers questions about every note in a vault. Paths are
// vault-relative and slash-separated.
type Metadata interface {
	// Notes returns every note path, sorted.
	Notes() ([]string, error)

	// ResolvedLinksOf maps each note the given note links to onto the
	// number of links to it. Unresolved links are left out.
	ResolvedLinksOf(path string) (map[string]int, error)

	// TagsOf returns the inline body tags of a note.
	TagsOf(path string) ([]parser.Tag, error)

	// FrontmatterOf returns the parsed frontmatter of a note, or nil.
	FrontmatterOf(path string) (*parser.Frontmatter, error)
}

// Backlink is one note linking to a target, with the 0-indexed lines the
// links sit on.
type Backlink struct {
	Source string
	Lines  []int
}

// Backlinker is implemented by metadata backings that record link
// positions and can answer "who links here" directly.
type Backlinker interface {
	BacklinksFor(path string) ([]Backlink, error)
}

// Vocabulary is implemented by backings that can list every tag and alias
// in the vault without visiting each note.
type Vocabulary interface {
	// AllTags returns every distinct body or frontmatter tag, without '#'.
	AllTags() ([]string, error)

	// AllAliases returns every distinct frontmatter alias.
	AllAliases() ([]string, error)
}
