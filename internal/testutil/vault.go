// Package testutil provides reusable test utilities for automoc tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestVault represents a temporary vault for testing.
type TestVault struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestVault creates a new test vault builder.
// Call Build() to create the actual vault directory.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file to the vault.
// The path is relative to the vault root and slash-separated.
func (v *TestVault) WithFile(path, content string) *TestVault {
	v.files[path] = content
	return v
}

// WithVaultConfig sets the automoc.yaml content for the vault.
func (v *TestVault) WithVaultConfig(yaml string) *TestVault {
	v.files["automoc.yaml"] = yaml
	return v
}

// Build creates the vault directory and all configured files.
// Returns the TestVault for method chaining.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()

	v.Path = v.t.TempDir()
	for path, content := range v.files {
		v.WriteFile(path, content)
	}
	return v
}

// WriteFile writes a file to the vault, creating directories as needed.
func (v *TestVault) WriteFile(relPath, content string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, filepath.FromSlash(relPath))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		v.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// Touch moves a file's modification time forward by d, so mtime-based
// staleness checks see it as changed even within the same second.
func (v *TestVault) Touch(relPath string, d time.Duration) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, filepath.FromSlash(relPath))
	info, err := os.Stat(fullPath)
	if err != nil {
		v.t.Fatalf("failed to stat %s: %v", fullPath, err)
	}
	mtime := info.ModTime().Add(d)
	if err := os.Chtimes(fullPath, mtime, mtime); err != nil {
		v.t.Fatalf("failed to touch %s: %v", fullPath, err)
	}
}

// ReadFile reads a file from the vault.
// Returns the content as a string.
func (v *TestVault) ReadFile(relPath string) string {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, filepath.FromSlash(relPath))
	content, err := os.ReadFile(fullPath)
	if err != nil {
		v.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}

// NorseVault returns a small vault used across tests: a hub note that
// links to nothing, people and places that link to it under headings,
// shared tags and aliases, and an archive folder.
func NorseVault(t *testing.T) *TestVault {
	t.Helper()
	return NewTestVault(t).
		WithFile("Asgard.md", "# Asgard\n\nHome of the gods.\n").
		WithFile("people/Freya.md", `---
aliases: [Lady Freya, Vanadis]
tags: [vanir]
---
# Freya

## Early life
Raised in [[Asgard]].

## Later
Nothing here.
`).
		WithFile("people/Thor.md", `---
tags: norse, aesir
---
# Thor
Lives in [[Asgard]] and keeps #hammer nearby.
`).
		WithFile("places/Bifrost.md", `# Bifrost
#bridge to [[Asgard|the realm]].
`).
		WithFile("archive/Old.md", "# Old\nMentions [[Asgard]].\n")
}
