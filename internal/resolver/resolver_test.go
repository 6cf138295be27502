package resolver

import (
	"reflect"
	"testing"
)

func TestResolver(t *testing.T) {
	notes := []string{
		"people/Freya.md",
		"people/Thor.md",
		"projects/Bifrost.md",
		"Index.md",
	}

	r := New(notes)

	t.Run("resolve full path", func(t *testing.T) {
		result := r.Resolve("people/Freya", "")
		if result.Path != "people/Freya.md" {
			t.Errorf("got %q, want %q", result.Path, "people/Freya.md")
		}
		if result.Ambiguous {
			t.Error("expected not ambiguous")
		}
	})

	t.Run("resolve full path with extension", func(t *testing.T) {
		result := r.Resolve("people/Freya.md", "")
		if result.Path != "people/Freya.md" {
			t.Errorf("got %q", result.Path)
		}
	})

	t.Run("resolve short name", func(t *testing.T) {
		result := r.Resolve("Bifrost", "Index.md")
		if result.Path != "projects/Bifrost.md" {
			t.Errorf("got %q, want %q", result.Path, "projects/Bifrost.md")
		}
	})

	t.Run("short name is case-insensitive", func(t *testing.T) {
		result := r.Resolve("bifrost", "")
		if result.Path != "projects/Bifrost.md" {
			t.Errorf("got %q", result.Path)
		}
	})

	t.Run("heading suffix ignored", func(t *testing.T) {
		result := r.Resolve("Thor#Hammer", "")
		if result.Path != "people/Thor.md" {
			t.Errorf("got %q", result.Path)
		}
	})

	t.Run("relative to source", func(t *testing.T) {
		result := r.Resolve("../people/Thor.md", "projects/Bifrost.md")
		if result.Path != "people/Thor.md" {
			t.Errorf("got %q", result.Path)
		}
	})

	t.Run("not found", func(t *testing.T) {
		result := r.Resolve("nonexistent", "")
		if result.Path != "" {
			t.Errorf("expected empty target, got %q", result.Path)
		}
		if result.Error == "" {
			t.Error("expected error message")
		}
	})

	t.Run("empty", func(t *testing.T) {
		if result := r.Resolve("  ", ""); result.Error == "" {
			t.Error("expected error for empty reference")
		}
	})
}

func TestResolverAmbiguous(t *testing.T) {
	notes := []string{
		"people/deep/Freya.md",
		"clients/Freya.md",
		"people/Freya.md",
	}

	r := New(notes)

	t.Run("shallowest then lexical", func(t *testing.T) {
		result := r.Resolve("Freya", "")
		if !result.Ambiguous {
			t.Error("expected ambiguous")
		}
		if result.Path != "clients/Freya.md" {
			t.Errorf("got %q, want clients/Freya.md", result.Path)
		}
		want := []string{"clients/Freya.md", "people/Freya.md", "people/deep/Freya.md"}
		if !reflect.DeepEqual(result.Matches, want) {
			t.Errorf("matches = %v, want %v", result.Matches, want)
		}
	})

	t.Run("same folder preferred", func(t *testing.T) {
		result := r.Resolve("Freya", "people/deep/Hub.md")
		if result.Path != "people/deep/Freya.md" {
			t.Errorf("got %q", result.Path)
		}
	})

	t.Run("partial path", func(t *testing.T) {
		result := r.Resolve("deep/Freya", "")
		if result.Path != "people/deep/Freya.md" {
			t.Errorf("got %q", result.Path)
		}
	})
}

func TestResolverSlugifiedMatching(t *testing.T) {
	notes := []string{
		"people/sif.md",
		"projects/my-awesome-project.md",
	}

	r := New(notes)

	tests := []struct {
		ref  string
		want string
	}{
		{"people/Sif", "people/sif.md"},
		{"projects/My Awesome Project", "projects/my-awesome-project.md"},
		{"My Awesome Project", "projects/my-awesome-project.md"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := r.Resolve(tt.ref, "").Path; got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLinkText(t *testing.T) {
	r := New([]string{"a/Freya.md", "b/Freya.md", "people/Thor.md"})

	tests := []struct {
		path string
		want string
	}{
		{"people/Thor.md", "Thor"},
		{"a/Freya.md", "a/Freya"},
		{"b/Freya.md", "b/Freya"},
	}
	for _, tt := range tests {
		if got := r.LinkText(tt.path); got != tt.want {
			t.Errorf("LinkText(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFindCollisions(t *testing.T) {
	r := New([]string{"a/Freya.md", "b/freya.md", "people/Thor.md"})
	got := r.FindCollisions()
	if len(got) != 1 || got[0].Name != "freya" || len(got[0].Paths) != 2 {
		t.Errorf("FindCollisions() = %+v", got)
	}
	if !r.Exists("people/Thor.md") || r.Exists("people/Odin.md") {
		t.Error("Exists mismatch")
	}
	if all := r.AllPaths(); !reflect.DeepEqual(all, []string{"a/Freya.md", "b/freya.md", "people/Thor.md"}) {
		t.Errorf("AllPaths() = %v", all)
	}
}
