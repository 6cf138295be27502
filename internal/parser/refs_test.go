package parser

import (
	"reflect"
	"testing"
)

func TestExtractLinks(t *testing.T) {
	content := `---
related: "[[Project Alpha]]"
---
# Notes
See [[Freya#Early life|Lady Freya]] and ![[diagram]].
Also [[#Local heading]] stays local.
Markdown [Thor](people/Thor%20Odinson.md#Hammer) and [web](https://example.com).
An image ![pic](assets/pic.png) is not a note.
` + "```" + `
[[Hidden]]
` + "```" + `
Inline ` + "`[[Code]]`" + ` too.
Last [[dir/Bifrost]]`

	got := ExtractLinks(content)
	want := []Link{
		{Target: "Project Alpha", Line: 1},
		{Target: "Freya", Heading: "Early life", Display: "Lady Freya", Line: 4},
		{Target: "diagram", Line: 4, Embed: true},
		{Target: "people/Thor Odinson.md", Heading: "Hammer", Display: "Thor", Line: 6, Markdown: true},
		{Target: "dir/Bifrost", Line: 12},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractLinks() =\n%#v\nwant\n%#v", got, want)
	}
}

func TestLocalTarget(t *testing.T) {
	tests := []struct {
		dest    string
		target  string
		heading string
		ok      bool
	}{
		{"note.md", "note.md", "", true},
		{"dir/note", "dir/note", "", true},
		{"My%20Note.md#Some%20Heading", "My Note.md", "Some Heading", true},
		{"#local", "", "", false},
		{"https://example.com/a.md", "", "", false},
		{"obsidian://open?vault=x", "", "", false},
		{"image.png", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		target, heading, ok := localTarget(tt.dest)
		if ok != tt.ok || target != tt.target || heading != tt.heading {
			t.Errorf("localTarget(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.dest, target, heading, ok, tt.target, tt.heading, tt.ok)
		}
	}
}

func TestParseNote(t *testing.T) {
	content := "---\ntags: [moc]\naliases: [Hub]\n---\nLinks to [[Other]] #inline\n"
	note := ParseNote("maps/Hub.md", content)

	if note.Path != "maps/Hub.md" {
		t.Errorf("Path = %q", note.Path)
	}
	if note.FrontmatterErr != nil {
		t.Fatalf("unexpected frontmatter error: %v", note.FrontmatterErr)
	}
	if len(note.Tags) != 1 || note.Tags[0].Name != "inline" {
		t.Errorf("Tags = %+v", note.Tags)
	}
	if got := note.Frontmatter.TagValues(); !reflect.DeepEqual(got, []string{"moc"}) {
		t.Errorf("frontmatter tags = %v", got)
	}
	if len(note.Links) != 1 || note.Links[0].Target != "Other" || note.Links[0].Line != 4 {
		t.Errorf("Links = %+v", note.Links)
	}
}

func TestParseNoteKeepsBodyOnBadFrontmatter(t *testing.T) {
	note := ParseNote("bad.md", "---\ntags: [oops\n---\nSee [[Other]]")
	if note.FrontmatterErr == nil {
		t.Fatal("expected frontmatter error")
	}
	if note.Frontmatter != nil {
		t.Errorf("expected nil frontmatter, got %+v", note.Frontmatter)
	}
	if len(note.Links) != 1 {
		t.Errorf("expected body link to survive, got %+v", note.Links)
	}
}
