package graph

import (
	"fmt"
	"sort"

	"github.com/aidanlsb/automoc/internal/parser"
	"github.com/aidanlsb/automoc/internal/resolver"
	"github.com/aidanlsb/automoc/internal/vault"
)

// Memory is Metadata computed from a full scan of the vault. It keeps no
// link positions, so it does not implement Backlinker.
type Memory struct {
	notes map[string]*parser.Note
	paths []string
	links map[string]map[string]int
}

// NewMemory builds metadata from parsed notes, resolving every link.
func NewMemory(notes []*parser.Note) *Memory {
	m := &Memory{
		notes: make(map[string]*parser.Note, len(notes)),
		links: make(map[string]map[string]int, len(notes)),
	}
	for _, n := range notes {
		m.notes[n.Path] = n
		m.paths = append(m.paths, n.Path)
	}
	sort.Strings(m.paths)

	res := resolver.New(m.paths)
	for _, p := range m.paths {
		resolved := make(map[string]int)
		for _, link := range m.notes[p].Links {
			if r := res.Resolve(link.Target, p); r.Path != "" {
				resolved[r.Path]++
			}
		}
		m.links[p] = resolved
	}
	return m
}

// Scan walks the vault and builds its metadata. Files that could not be
// read are returned alongside; they are not part of the metadata.
func Scan(vaultPath string) (*Memory, []vault.WalkResult, error) {
	notes, failed, err := vault.CollectNotes(vaultPath)
	if err != nil {
		return nil, nil, fmt.Errorf("scan vault: %w", err)
	}
	return NewMemory(notes), failed, nil
}

// Notes returns every note path, sorted.
func (m *Memory) Notes() ([]string, error) {
	return append([]string(nil), m.paths...), nil
}

// ResolvedLinksOf returns the resolved outgoing links of a note.
func (m *Memory) ResolvedLinksOf(path string) (map[string]int, error) {
	links, ok := m.links[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNote, path)
	}
	out := make(map[string]int, len(links))
	for k, v := range links {
		out[k] = v
	}
	return out, nil
}

// TagsOf returns the inline tags of a note.
func (m *Memory) TagsOf(path string) ([]parser.Tag, error) {
	n, ok := m.notes[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNote, path)
	}
	return n.Tags, nil
}

// FrontmatterOf returns the frontmatter of a note.
func (m *Memory) FrontmatterOf(path string) (*parser.Frontmatter, error) {
	n, ok := m.notes[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNote, path)
	}
	return n.Frontmatter, nil
}

var _ Metadata = (*Memory)(nil)
