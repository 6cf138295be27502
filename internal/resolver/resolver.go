// Package resolver resolves link text to vault notes the way the vault's
// editor does: exact path, then path relative to the linking note, then
// unique note name.
package resolver

import (
	"path"
	"sort"
	"strings"

	"github.com/gosimple/slug"

	"github.com/aidanlsb/automoc/internal/paths"
)

// Resolver resolves link targets against a fixed set of note paths.
type Resolver struct {
	notes   map[string]struct{} // Set of all known vault-relative paths
	lower   map[string][]string // Map from lowercased path to paths
	nameMap map[string][]string // Map from lowercased note name to paths
	slugMap map[string]string   // Map from slugified path to path
}

// New creates a new Resolver for the given vault-relative note paths.
func New(notePaths []string) *Resolver {
	r := &Resolver{
		notes:   make(map[string]struct{}, len(notePaths)),
		lower:   make(map[string][]string, len(notePaths)),
		nameMap: make(map[string][]string, len(notePaths)),
		slugMap: make(map[string]string, len(notePaths)),
	}

	for _, p := range notePaths {
		p = paths.NormalizeRelPath(p)
		if _, ok := r.notes[p]; ok {
			continue
		}
		r.notes[p] = struct{}{}

		lp := strings.ToLower(p)
		r.lower[lp] = append(r.lower[lp], p)

		name := strings.ToLower(paths.NoteName(p))
		r.nameMap[name] = append(r.nameMap[name], p)

		r.slugMap[slugifyPath(p)] = p
	}

	for _, list := range r.nameMap {
		sortByDepth(list)
	}
	return r
}

// ResolveResult represents the result of a link resolution.
type ResolveResult struct {
	// Path is the resolved note (empty if unresolved).
	Path string

	// Ambiguous is true if the link text names several notes. Path still
	// holds the preferred one.
	Ambiguous bool

	// Matches contains all candidate paths (for ambiguous links).
	Matches []string

	// Error message if resolution failed.
	Error string
}

// Resolve resolves link text written in the note at source. Any "#heading"
// suffix is ignored. source may be empty.
func (r *Resolver) Resolve(ref, source string) ResolveResult {
	ref, _, _ = strings.Cut(strings.TrimSpace(ref), "#")
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ResolveResult{Error: "empty reference"}
	}
	withExt := paths.WithExt(ref)

	// Relative to the linking note ("./x", "../x", "sub/x").
	if source != "" {
		dir := path.Dir(paths.NormalizeRelPath(source))
		if p, ok := r.lookup(path.Join(dir, withExt)); ok {
			return ResolveResult{Path: p}
		}
	}

	// Vault-relative path.
	if p, ok := r.lookup(path.Clean(paths.NormalizeRelPath(withExt))); ok {
		return ResolveResult{Path: p}
	}

	if strings.Contains(ref, "/") {
		// Partial path: any note whose path ends with "/<ref>.md".
		suffix := "/" + strings.ToLower(paths.NormalizeRelPath(withExt))
		var matches []string
		for lp, ps := range r.lower {
			if strings.HasSuffix(lp, suffix) {
				matches = append(matches, ps...)
			}
		}
		if len(matches) > 0 {
			return r.pick(matches, source)
		}

		// Slugified match: "people/Sif Odin" -> "people/sif-odin.md".
		if p, ok := r.slugMap[slugifyPath(withExt)]; ok {
			return ResolveResult{Path: p}
		}
		return ResolveResult{Error: "reference not found"}
	}

	name := strings.ToLower(strings.TrimSuffix(withExt, path.Ext(withExt)))
	if matches := r.nameMap[name]; len(matches) > 0 {
		return r.pick(matches, source)
	}
	if p, ok := r.slugMap[slugifyPath(withExt)]; ok {
		return ResolveResult{Path: p}
	}
	if matches := r.nameMap[slug.Make(name)]; len(matches) > 0 {
		return r.pick(matches, source)
	}

	return ResolveResult{Error: "reference not found"}
}

// lookup finds p exactly, then case-insensitively.
func (r *Resolver) lookup(p string) (string, bool) {
	if _, ok := r.notes[p]; ok {
		return p, true
	}
	if ps := r.lower[strings.ToLower(p)]; len(ps) > 0 {
		return ps[0], true
	}
	return "", false
}

// pick chooses among several candidates: a note in the linking note's own
// folder first, then the shallowest path, then lexical order.
func (r *Resolver) pick(matches []string, source string) ResolveResult {
	if len(matches) == 1 {
		return ResolveResult{Path: matches[0]}
	}
	sorted := append([]string(nil), matches...)
	sortByDepth(sorted)

	chosen := sorted[0]
	if source != "" {
		dir := path.Dir(paths.NormalizeRelPath(source))
		for _, m := range sorted {
			if path.Dir(m) == dir {
				chosen = m
				break
			}
		}
	}
	return ResolveResult{
		Path:      chosen,
		Ambiguous: true,
		Matches:   sorted,
	}
}

// Exists reports whether p is a known note path.
func (r *Resolver) Exists(p string) bool {
	_, ok := r.notes[paths.NormalizeRelPath(p)]
	return ok
}

// LinkText returns the shortest text that links unambiguously to the note
// at p: its bare name when no other note shares it, its extensionless path
// otherwise.
func (r *Resolver) LinkText(p string) string {
	p = paths.NormalizeRelPath(p)
	name := paths.NoteName(p)
	if len(r.nameMap[strings.ToLower(name)]) <= 1 {
		return name
	}
	return strings.TrimSuffix(p, ".md")
}

// ResolveAll resolves all references from source and returns a map from
// raw ref to result.
func (r *Resolver) ResolveAll(refs []string, source string) map[string]ResolveResult {
	results := make(map[string]ResolveResult, len(refs))
	for _, ref := range refs {
		results[ref] = r.Resolve(ref, source)
	}
	return results
}

// NameCollision represents notes sharing one name.
type NameCollision struct {
	Name  string   // The lowercased note name (e.g., "freya")
	Paths []string // The notes that share it
}

// FindCollisions finds notes that share the same name. Links to those
// names by bare name are ambiguous.
func (r *Resolver) FindCollisions() []NameCollision {
	var collisions []NameCollision
	for name, ps := range r.nameMap {
		if len(ps) > 1 {
			collisions = append(collisions, NameCollision{Name: name, Paths: ps})
		}
	}
	sort.Slice(collisions, func(i, j int) bool {
		return collisions[i].Name < collisions[j].Name
	})
	return collisions
}

// AllPaths returns all known note paths, sorted.
func (r *Resolver) AllPaths() []string {
	out := make([]string, 0, len(r.notes))
	for p := range r.notes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func sortByDepth(ps []string) {
	sort.Slice(ps, func(i, j int) bool {
		di, dj := strings.Count(ps[i], "/"), strings.Count(ps[j], "/")
		if di != dj {
			return di < dj
		}
		return ps[i] < ps[j]
	})
}

// slugifyPath slugifies each path segment, keeping the ".md" extension off.
func slugifyPath(p string) string {
	p = strings.TrimSuffix(paths.NormalizeRelPath(p), ".md")
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = slug.Make(part)
	}
	return strings.Join(parts, "/")
}
