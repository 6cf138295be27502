package parser

import (
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantNil     bool
		wantErr     bool
		wantTags    []string
		wantAliases []string
		wantEndLine int
	}{
		{
			name: "list values",
			content: `---
tags:
  - project
  - "#reading"
aliases: [Freya, Lady Freya]
---

# Freya`,
			wantTags:    []string{"project", "reading"},
			wantAliases: []string{"Freya", "Lady Freya"},
			wantEndLine: 6,
		},
		{
			name: "comma string values",
			content: `---
tags: project, reading
aliases: Freya, Lady Freya
---
Body`,
			wantTags:    []string{"project", "reading"},
			wantAliases: []string{"Freya", "Lady Freya"},
			wantEndLine: 4,
		},
		{
			name: "singular legacy keys",
			content: `---
tag: solo
alias: Only
---`,
			wantTags:    []string{"solo"},
			wantAliases: []string{"Only"},
			wantEndLine: 4,
		},
		{
			name:    "no frontmatter",
			content: "# Just a heading\n\nSome content",
			wantNil: true,
		},
		{
			name:    "unclosed frontmatter",
			content: "---\ntags: a\n# Heading",
			wantNil: true,
		},
		{
			name: "empty frontmatter still counts",
			content: `---
---
Content`,
			wantTags:    []string{},
			wantAliases: []string{},
			wantEndLine: 2,
		},
		{
			name: "mapping-shaped tags are ignored",
			content: `---
tags:
  nested: value
aliases: ~
---`,
			wantTags:    []string{},
			wantAliases: []string{},
			wantEndLine: 5,
		},
		{
			name:    "invalid yaml",
			content: "---\ntags: [unterminated\n---",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, err := ParseFrontmatter(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if fm != nil {
					t.Fatalf("expected nil frontmatter, got %+v", fm)
				}
				return
			}
			if fm == nil {
				t.Fatal("expected frontmatter")
			}
			if got := fm.TagValues(); !reflect.DeepEqual(got, tt.wantTags) {
				t.Errorf("tags = %#v, want %#v", got, tt.wantTags)
			}
			if got := fm.AliasValues(); !reflect.DeepEqual(got, tt.wantAliases) {
				t.Errorf("aliases = %#v, want %#v", got, tt.wantAliases)
			}
			if fm.EndLine != tt.wantEndLine {
				t.Errorf("EndLine = %d, want %d", fm.EndLine, tt.wantEndLine)
			}
		})
	}
}

func TestStringOrListValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want []string
	}{
		{"absent", "other: x", []string{}},
		{"null", "v: ~", []string{}},
		{"scalar", "v: a", []string{"a"}},
		{"comma scalar", "v: a, b, c", []string{"a", "b", "c"}},
		{"comma without space is one item", "v: a,b", []string{"a,b"}},
		{"list kept as written", "v: [\"a, b\", c]", []string{"a, b", "c"}},
		{"empty items dropped", "v: [\"\", x, \" \"]", []string{"x"}},
		{"numbers stringified", "v: [1, true]", []string{"1", "true"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				V StringOrList `yaml:"v"`
			}
			if err := yaml.Unmarshal([]byte(tt.yaml), &doc); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := doc.V.Values(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Values() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNilFrontmatterValues(t *testing.T) {
	var fm *Frontmatter
	if fm.TagValues() != nil || fm.AliasValues() != nil {
		t.Error("nil frontmatter should yield nil values")
	}
}
