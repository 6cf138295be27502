package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/automoc/internal/atomicfile"
	"github.com/aidanlsb/automoc/internal/outline"
	"github.com/aidanlsb/automoc/internal/paths"
	"github.com/aidanlsb/automoc/internal/resolver"
)

// ErrNoteNotFound is returned when a note argument matches no file.
var ErrNoteNotFound = errors.New("note not found")

// AmbiguousNoteError is returned when a note argument names several notes.
type AmbiguousNoteError struct {
	Ref     string
	Matches []string
}

func (e *AmbiguousNoteError) Error() string {
	return fmt.Sprintf("%q matches %d notes: %s", e.Ref, len(e.Matches), strings.Join(e.Matches, ", "))
}

// FS reads and writes notes under a vault root. Paths are vault-relative
// and slash-separated.
type FS struct {
	Root string
}

// ReadNote returns the content of the note at rel.
func (f FS) ReadNote(rel string) (string, error) {
	full, err := f.abs(rel)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(full)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// WriteNote replaces the content of the note at rel atomically.
func (f FS) WriteNote(rel, content string) error {
	full, err := f.abs(rel)
	if err != nil {
		return err
	}
	return atomicfile.WriteFile(full, []byte(content), 0)
}

// ReplaceNote writes content to the note at rel only if it still holds
// previous, returning atomicfile.ErrModified otherwise.
func (f FS) ReplaceNote(rel, previous, content string) error {
	full, err := f.abs(rel)
	if err != nil {
		return err
	}
	return atomicfile.ReplaceIfUnchanged(full, []byte(previous), []byte(content))
}

// Mtime returns the modification time of the note at rel as Unix seconds.
func (f FS) Mtime(rel string) (int64, error) {
	full, err := f.abs(rel)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return 0, err
	}
	return info.ModTime().Unix(), nil
}

func (f FS) abs(rel string) (string, error) {
	full := filepath.Join(f.Root, filepath.FromSlash(paths.NormalizeRelPath(rel)))
	if err := paths.ValidateWithinVault(f.Root, full); err != nil {
		return "", err
	}
	return full, nil
}

var _ outline.Source = FS{}

// ResolveNote turns a note argument into a vault-relative path. It accepts
// a path relative to the vault (with or without ".md"), an absolute path
// inside the vault, or any link text that resolves to exactly one note.
func ResolveNote(vaultPath, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrNoteNotFound
	}

	if filepath.IsAbs(ref) {
		if err := paths.ValidateWithinVault(vaultPath, ref); err != nil {
			return "", err
		}
		if _, err := os.Stat(ref); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNoteNotFound, ref)
		}
		return relPath(vaultPath, ref), nil
	}

	// Direct candidates first: the path as given, then with ".md".
	normalized := paths.NormalizeRelPath(ref)
	for _, rel := range []string{normalized, paths.WithExt(normalized)} {
		full := filepath.Join(vaultPath, filepath.FromSlash(rel))
		if st, err := os.Stat(full); err == nil && !st.IsDir() {
			if err := paths.ValidateWithinVault(vaultPath, full); err != nil {
				return "", err
			}
			return rel, nil
		}
	}

	// Fall back to link-style resolution over every note.
	files, err := ListNotes(vaultPath)
	if err != nil {
		return "", err
	}
	all := make([]string, len(files))
	for i, f := range files {
		all[i] = f.RelativePath
	}

	result := resolver.New(all).Resolve(ref, "")
	switch {
	case result.Path == "":
		return "", fmt.Errorf("%w: %s", ErrNoteNotFound, ref)
	case result.Ambiguous:
		return "", &AmbiguousNoteError{Ref: ref, Matches: result.Matches}
	}
	return result.Path, nil
}
