package vault

import (
	"reflect"
	"sort"
	"testing"

	"github.com/aidanlsb/automoc/internal/testutil"
)

func TestWalkNotes(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("page1.md", "# Page 1\n").
		WithFile("subdir/page2.md", "---\ntags: [x]\n---\n# Freya\n").
		WithFile(".automoc/index.db", "fake db").
		WithFile(".automoc/stray.md", "# Stray\n").
		WithFile(".obsidian/workspace.md", "# Workspace\n").
		WithFile(".trash/deleted.md", "# Deleted\n").
		WithFile(".git/HEAD.md", "ref\n").
		WithFile("readme.txt", "readme").
		Build()

	var found []string
	var parsed int
	err := WalkNotes(v.Path, func(result WalkResult) error {
		if result.Error != nil {
			t.Errorf("unexpected error for %s: %v", result.RelativePath, result.Error)
			return nil
		}
		found = append(found, result.RelativePath)
		if result.Note != nil {
			parsed++
			if result.Note.Path != result.RelativePath {
				t.Errorf("note path %q != relative path %q", result.Note.Path, result.RelativePath)
			}
		}
		if result.FileMtime == 0 {
			t.Errorf("missing mtime for %s", result.RelativePath)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WalkNotes failed: %v", err)
	}

	sort.Strings(found)
	want := []string{"page1.md", "subdir/page2.md"}
	if !reflect.DeepEqual(found, want) {
		t.Errorf("found %v, want %v", found, want)
	}
	if parsed != 2 {
		t.Errorf("parsed %d notes, want 2", parsed)
	}
}

func TestWalkNotesKeepsBadFrontmatter(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("valid.md", "---\ntags: [a]\n---\n# Valid\n").
		WithFile("invalid.md", "---\ntags: [invalid yaml\n---\nSee [[valid]]\n").
		Build()

	notes, errs, err := CollectNotes(v.Path)
	if err != nil {
		t.Fatalf("CollectNotes failed: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("got %d walk errors, want 0", len(errs))
	}
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(notes))
	}
	for _, n := range notes {
		if n.Path == "invalid.md" {
			if n.FrontmatterErr == nil {
				t.Error("expected frontmatter error on invalid.md")
			}
			if len(n.Links) != 1 {
				t.Errorf("expected body link on invalid.md, got %+v", n.Links)
			}
		}
	}
}

func TestListNotes(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("b.md", "").
		WithFile("a/c.md", "").
		WithFile(".trash/x.md", "").
		Build()

	files, err := ListNotes(v.Path)
	if err != nil {
		t.Fatalf("ListNotes failed: %v", err)
	}
	var got []string
	for _, f := range files {
		got = append(got, f.RelativePath)
	}
	if want := []string{"a/c.md", "b.md"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListNotes() = %v, want %v", got, want)
	}
}
