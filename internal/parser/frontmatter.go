// Package parser extracts the metadata a vault note carries: frontmatter
// tags and aliases, inline tags, and outgoing links.
package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter represents parsed frontmatter data.
type Frontmatter struct {
	Tags    StringOrList
	Aliases StringOrList

	// Fields holds every decoded key, including tags and aliases.
	Fields map[string]interface{}

	// Raw is the raw frontmatter content.
	Raw string

	// EndLine is the line where frontmatter ends (1-indexed).
	EndLine int
}

// TagValues returns the normalized frontmatter tags, without a leading '#'.
func (fm *Frontmatter) TagValues() []string {
	if fm == nil {
		return nil
	}
	values := fm.Tags.Values()
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = NormalizeTag(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// AliasValues returns the normalized frontmatter aliases.
func (fm *Frontmatter) AliasValues() []string {
	if fm == nil {
		return nil
	}
	return fm.Aliases.Values()
}

// StringOrList holds a frontmatter value written either as a single string
// or as a list of strings.
type StringOrList struct {
	scalar *string
	list   []string
}

// IsZero reports whether no value was set.
func (s StringOrList) IsZero() bool {
	return s.scalar == nil && s.list == nil
}

// Values normalizes the value into an ordered list. A single string is
// split on ", " ("a, b" -> ["a", "b"]); list items are kept as written.
// Empty items are dropped.
func (s StringOrList) Values() []string {
	var raw []string
	switch {
	case s.list != nil:
		raw = s.list
	case s.scalar != nil:
		raw = strings.Split(*s.scalar, ", ")
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if strings.TrimSpace(v) == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

// UnmarshalYAML accepts a scalar or a sequence of scalars. Other shapes are
// ignored rather than failing the whole frontmatter block.
func (s *StringOrList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
		v := node.Value
		s.scalar = &v
	case yaml.SequenceNode:
		s.list = []string{}
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode || item.Tag == "!!null" {
				continue
			}
			s.list = append(s.list, item.Value)
		}
	}
	return nil
}

// knownFields is decoded separately so tags and aliases go through StringOrList.
// The singular keys are older spellings still found in vaults.
type knownFields struct {
	Tags    StringOrList `yaml:"tags"`
	Tag     StringOrList `yaml:"tag"`
	Aliases StringOrList `yaml:"aliases"`
	Alias   StringOrList `yaml:"alias"`
}

// FrontmatterBounds returns the opening and closing frontmatter line indices.
// It only detects frontmatter when the first line is '---'.
// If frontmatter is present but unclosed, endLine is -1.
func FrontmatterBounds(lines []string) (startLine int, endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0, -1, false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i, true
		}
	}

	return 0, -1, true
}

// ParseFrontmatter parses YAML frontmatter from markdown content.
// Returns nil if no frontmatter is found.
func ParseFrontmatter(content string) (*Frontmatter, error) {
	lines := strings.Split(content, "\n")

	_, endLine, ok := FrontmatterBounds(lines)
	if !ok || endLine == -1 {
		return nil, nil
	}

	raw := strings.Join(lines[1:endLine], "\n")

	var fields map[string]interface{}
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter as YAML: %w", err)
	}
	if fields == nil {
		fields = map[string]interface{}{}
	}

	var known knownFields
	if err := yaml.Unmarshal([]byte(raw), &known); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter as YAML: %w", err)
	}

	fm := &Frontmatter{
		Tags:    known.Tags,
		Aliases: known.Aliases,
		Fields:  fields,
		Raw:     raw,
		EndLine: endLine + 1,
	}
	if fm.Tags.IsZero() {
		fm.Tags = known.Tag
	}
	if fm.Aliases.IsZero() {
		fm.Aliases = known.Alias
	}
	return fm, nil
}

// NormalizeTag strips one leading '#' and surrounding whitespace.
func NormalizeTag(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "#")
}
