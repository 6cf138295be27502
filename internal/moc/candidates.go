package moc

import (
	"fmt"
	"sort"

	"github.com/aidanlsb/automoc/internal/graph"
)

// TagCandidates returns every tag used in the vault, '#'-prefixed, sorted
// and unique. Body tags and frontmatter tags are both included.
func TagCandidates(meta graph.Metadata) ([]string, error) {
	if v, ok := meta.(graph.Vocabulary); ok {
		tags, err := v.AllTags()
		if err != nil {
			return nil, fmt.Errorf("list tags: %w", err)
		}
		set := make(map[string]struct{}, len(tags))
		for _, t := range tags {
			set["#"+t] = struct{}{}
		}
		return sortedSet(set), nil
	}

	notes, err := meta.Notes()
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	set := make(map[string]struct{})
	for _, p := range notes {
		tags, err := meta.TagsOf(p)
		if err != nil {
			return nil, fmt.Errorf("tags of %s: %w", p, err)
		}
		for _, t := range tags {
			set["#"+t.Name] = struct{}{}
		}
		fm, err := meta.FrontmatterOf(p)
		if err != nil {
			return nil, fmt.Errorf("frontmatter of %s: %w", p, err)
		}
		for _, t := range fm.TagValues() {
			set["#"+t] = struct{}{}
		}
	}
	return sortedSet(set), nil
}

// AliasCandidates returns every frontmatter alias in the vault, sorted and
// unique.
func AliasCandidates(meta graph.Metadata) ([]string, error) {
	if v, ok := meta.(graph.Vocabulary); ok {
		aliases, err := v.AllAliases()
		if err != nil {
			return nil, fmt.Errorf("list aliases: %w", err)
		}
		set := make(map[string]struct{}, len(aliases))
		for _, a := range aliases {
			set[a] = struct{}{}
		}
		return sortedSet(set), nil
	}

	notes, err := meta.Notes()
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	set := make(map[string]struct{})
	for _, p := range notes {
		fm, err := meta.FrontmatterOf(p)
		if err != nil {
			return nil, fmt.Errorf("frontmatter of %s: %w", p, err)
		}
		for _, a := range fm.AliasValues() {
			set[a] = struct{}{}
		}
	}
	return sortedSet(set), nil
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
