package outline

import (
	"reflect"
	"strings"
	"testing"
)

func TestIndexHeadings(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Entry
	}{
		{
			name: "empty text",
			text: "",
			want: []Entry{},
		},
		{
			name: "levels one through six",
			text: "# One\n###### Six\n####### Seven",
			want: []Entry{
				{Title: "One", IsHeading: true},
				{Title: "Six", IsHeading: true},
				NoHeading,
			},
		},
		{
			name: "marker needs whitespace and text",
			text: "#tag\n# \n#\tTabbed\n #indented",
			want: []Entry{
				NoHeading,
				NoHeading,
				{Title: "Tabbed", IsHeading: true},
				NoHeading,
			},
		},
		{
			name: "blank lines are entries",
			text: "# A\n\n\nbody\n",
			want: []Entry{
				{Title: "A", IsHeading: true},
				NoHeading,
				NoHeading,
				NoHeading,
				NoHeading,
			},
		},
		{
			name: "every hash is stripped from the title",
			text: "## Tips #useful\n## C# basics\n# Closed #",
			want: []Entry{
				{Title: "Tips useful", IsHeading: true},
				{Title: "C basics", IsHeading: true},
				{Title: "Closed", IsHeading: true},
			},
		},
		{
			name: "carriage returns are trimmed",
			text: "# Windows\r\nbody\r\n",
			want: []Entry{
				{Title: "Windows", IsHeading: true},
				NoHeading,
				NoHeading,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IndexHeadings(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("len(IndexHeadings) = %d, want %d (%#v)", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %#v, want %#v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIndexHeadingsLengthMatchesLineCount(t *testing.T) {
	texts := []string{
		"single line",
		"a\nb\nc",
		"trailing newline\n",
		"\n\n\n",
		"# H\n\n## I\n",
	}
	for _, text := range texts {
		got := len(IndexHeadings(text))
		want := len(strings.Split(text, "\n"))
		if got != want {
			t.Errorf("IndexHeadings(%q) has %d entries, want %d", text, got, want)
		}
	}
}

func TestHeadingTitleQuirk(t *testing.T) {
	title, ok := ParseHeading("## Tips #useful")
	if !ok {
		t.Fatal("expected heading")
	}
	if title != "Tips useful" {
		t.Errorf("title = %q, want %q", title, "Tips useful")
	}
}

func TestCleanTitleIdempotent(t *testing.T) {
	for _, raw := range []string{"Tips #useful", "  spaced  ", "#", "plain", "a ## b #"} {
		once := CleanTitle(raw)
		if twice := CleanTitle(once); twice != once {
			t.Errorf("CleanTitle(CleanTitle(%q)) = %q, want %q", raw, twice, once)
		}
	}
}

func TestDefaultToken(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Foo.md", "[[Foo]]"},
		{"Daily Review.md", "[[Daily Review]]"},
		{"folder/Foo.md", "[[Foo]]"},
		{"Foo", "[[Foo]]"},
	}
	for _, tt := range tests {
		if got := DefaultToken(tt.name); got != tt.want {
			t.Errorf("DefaultToken(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFindTokenLines(t *testing.T) {
	t.Run("explicit token", func(t *testing.T) {
		got := FindTokenLines("see [[Foo]] here\nunrelated", "[[Foo]]", "Other.md")
		if !reflect.DeepEqual(got, []int{0}) {
			t.Errorf("got %v, want [0]", got)
		}
	})

	t.Run("default token from active name", func(t *testing.T) {
		text := "[[Foo]]\nnothing\n[[Foo]] and [[Foo]] again\n[[Foobar]]"
		got := FindTokenLines(text, "", "Foo.md")
		if !reflect.DeepEqual(got, []int{0, 2}) {
			t.Errorf("got %v, want [0 2]", got)
		}
	})

	t.Run("substring tokens false-positive", func(t *testing.T) {
		got := FindTokenLines("#golang\n#go", "#go", "x.md")
		if !reflect.DeepEqual(got, []int{0, 1}) {
			t.Errorf("got %v, want [0 1]", got)
		}
	})

	t.Run("no match and empty text", func(t *testing.T) {
		if got := FindTokenLines("a\nb", "zzz", "x.md"); len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
		if got := FindTokenLines("", "a", "x.md"); len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})
}
