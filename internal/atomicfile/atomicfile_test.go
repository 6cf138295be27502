package atomicfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")

	if err := WriteFile(path, []byte("one"), 0); err != nil {
		t.Fatalf("WriteFile (create) failed: %v", err)
	}
	if err := WriteFile(path, []byte("two"), 0); err != nil {
		t.Fatalf("WriteFile (replace) failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two" {
		t.Errorf("content = %q, want %q", got, "two")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestReplaceIfUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	if err := os.WriteFile(path, []byte("base"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ReplaceIfUnchanged(path, []byte("base"), []byte("base+links")); err != nil {
		t.Fatalf("ReplaceIfUnchanged failed: %v", err)
	}

	err := ReplaceIfUnchanged(path, []byte("base"), []byte("stale edit"))
	if !errors.Is(err, ErrModified) {
		t.Fatalf("expected ErrModified, got %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "base+links" {
		t.Errorf("file was overwritten: %q", got)
	}
}
