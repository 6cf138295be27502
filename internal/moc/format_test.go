package moc

import (
	"reflect"
	"testing"

	"github.com/aidanlsb/automoc/internal/config"
	"github.com/aidanlsb/automoc/internal/resolver"
)

func TestFormat(t *testing.T) {
	res := resolver.New([]string{"Hub.md", "people/Freya.md", "people/Thor.md", "work/Thor.md"})
	entries := []Entry{
		{Path: "people/Freya.md", Headings: []string{"Early life", "Later"}, Alias: "Vanadis"},
		{Path: "people/Thor.md"},
	}

	tests := []struct {
		name   string
		mutate func(*config.VaultConfig)
		want   []string
	}{
		{
			name:   "plain wikilinks",
			mutate: func(*config.VaultConfig) {},
			want: []string{
				"[[Freya#Early life|Vanadis]]\n",
				"[[Freya#Later|Vanadis]]\n",
				"[[people/Thor]]\n",
			},
		},
		{
			name:   "unordered",
			mutate: func(c *config.VaultConfig) { c.ImportAsList = config.ListUnordered },
			want: []string{
				"* [[Freya#Early life|Vanadis]]\n",
				"* [[Freya#Later|Vanadis]]\n",
				"* [[people/Thor]]\n",
			},
		},
		{
			name:   "checkbox",
			mutate: func(c *config.VaultConfig) { c.ImportAsList = config.ListCheckbox },
			want: []string{
				"- [ ] [[Freya#Early life|Vanadis]]\n",
				"- [ ] [[Freya#Later|Vanadis]]\n",
				"- [ ] [[people/Thor]]\n",
			},
		},
		{
			name:   "ordered counts per note",
			mutate: func(c *config.VaultConfig) { c.ImportAsList = config.ListOrdered },
			want: []string{
				"1. [[Freya#Early life|Vanadis]]\n",
				"1. [[Freya#Later|Vanadis]]\n",
				"2. [[people/Thor]]\n",
			},
		},
		{
			name:   "markdown text anchors",
			mutate: func(c *config.VaultConfig) { c.LinkFormat = config.FormatMarkdown },
			want: []string{
				"[Vanadis](people/Freya.md#Early%20life)\n",
				"[Vanadis](people/Freya.md#Later)\n",
				"[Thor](people/Thor.md)\n",
			},
		},
		{
			name: "markdown slug anchors",
			mutate: func(c *config.VaultConfig) {
				c.LinkFormat = config.FormatMarkdown
				c.AnchorStyle = config.AnchorSlug
			},
			want: []string{
				"[Vanadis](people/Freya.md#early-life)\n",
				"[Vanadis](people/Freya.md#later)\n",
				"[Thor](people/Thor.md)\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := config.DefaultVaultConfig()
			tt.mutate(settings)
			f := &Formatter{Settings: settings, Resolver: res, Active: "Hub.md"}
			if got := f.Format(entries); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWikilinkHeadingWithPipe(t *testing.T) {
	res := resolver.New([]string{"a/Dup.md", "b/Dup.md"})
	f := &Formatter{Settings: config.DefaultVaultConfig(), Resolver: res, Active: "Hub.md"}

	tests := []struct{ heading, alias, want string }{
		{"X | y", "", "[[b/Dup#X y]]"},
		{"X | y", "Dup", "[[b/Dup#X y|Dup]]"},
		{"Plain", "", "[[b/Dup#Plain]]"},
	}
	for _, tt := range tests {
		if got := f.Link("b/Dup.md", tt.heading, tt.alias); got != tt.want {
			t.Errorf("Link(%q, %q) = %q, want %q", tt.heading, tt.alias, got, tt.want)
		}
	}
}

func TestMarkdownLinkRelativeToActive(t *testing.T) {
	settings := config.DefaultVaultConfig()
	settings.LinkFormat = config.FormatMarkdown
	f := &Formatter{Settings: settings, Active: "maps/Norse Gods.md"}

	if got, want := f.Link("people/Old One.md", "", ""), "[Old One](../people/Old%20One.md)"; got != want {
		t.Errorf("Link() = %q, want %q", got, want)
	}
}

func TestInsert(t *testing.T) {
	block := "[[A]]\n[[B]]\n"
	tests := []struct {
		name string
		text string
		line int
		want string
	}{
		{name: "append", text: "x\ny\n", line: -1, want: "x\ny\n[[A]]\n[[B]]\n"},
		{name: "append adds newline", text: "x\ny", line: -1, want: "x\ny\n[[A]]\n[[B]]\n"},
		{name: "first line", text: "x\ny\n", line: 0, want: "[[A]]\n[[B]]\nx\ny\n"},
		{name: "middle", text: "x\ny\n", line: 1, want: "x\n[[A]]\n[[B]]\ny\n"},
		{name: "past end", text: "x\ny", line: 9, want: "x\ny\n[[A]]\n[[B]]\n"},
		{name: "empty text", text: "", line: 0, want: "[[A]]\n[[B]]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Insert(tt.text, tt.line, block); got != tt.want {
				t.Errorf("Insert() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := Insert("x\n", 0, ""); got != "x\n" {
		t.Errorf("empty block changed text: %q", got)
	}
}
