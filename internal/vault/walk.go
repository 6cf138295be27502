// Package vault reads and writes the markdown notes of a vault directory.
package vault

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aidanlsb/automoc/internal/parser"
	"github.com/aidanlsb/automoc/internal/paths"
)

// StateDir is the per-vault directory holding the index.
const StateDir = ".automoc"

// skipDirs are never walked: tool state, editor config, trash and VCS.
var skipDirs = map[string]bool{
	StateDir:   true,
	".obsidian": true,
	".trash":    true,
	".git":      true,
}

// SkipDir reports whether a directory with this name is left out of the
// vault.
func SkipDir(name string) bool {
	return skipDirs[name]
}

// WalkResult contains the result of processing a markdown file.
type WalkResult struct {
	Path         string
	RelativePath string // Slash-separated, relative to the vault root
	Note         *parser.Note
	FileMtime    int64 // File modification time as Unix timestamp
	Error        error
}

// NoteFile is a markdown file found in the vault, not yet read.
type NoteFile struct {
	RelativePath string
	FileMtime    int64
}

// walkFiles calls fn for every markdown file in the vault. Per-file errors
// go to fn with an empty NoteFile mtime; fn decides whether to stop.
func walkFiles(vaultPath string, fn func(absPath string, file NoteFile, err error) error) error {
	return filepath.WalkDir(vaultPath, func(path string, d fs.DirEntry, err error) error {
		relativePath := relPath(vaultPath, path)
		if err != nil {
			return fn(path, NoteFile{RelativePath: relativePath}, err)
		}

		if d.IsDir() {
			if path != vaultPath && SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		// Only process .md files
		if !strings.HasSuffix(path, ".md") {
			return nil
		}

		// Security: verify file is within vault
		if err := paths.ValidateWithinVault(vaultPath, path); err != nil {
			if errors.Is(err, paths.ErrPathOutsideVault) {
				return nil
			}
			return fn(path, NoteFile{RelativePath: relativePath}, err)
		}

		info, err := d.Info()
		if err != nil {
			return fn(path, NoteFile{RelativePath: relativePath}, err)
		}
		return fn(path, NoteFile{RelativePath: relativePath, FileMtime: info.ModTime().Unix()}, nil)
	})
}

// WalkNotes walks all markdown files in a vault and calls the handler for each.
// It automatically:
// - Skips the .automoc, .obsidian, .trash and .git directories
// - Only processes .md files
// - Verifies files are within the vault (security check)
// - Parses each note
//
// A file that cannot be read is reported through WalkResult.Error; the walk
// continues unless the handler returns an error.
func WalkNotes(vaultPath string, handler func(result WalkResult) error) error {
	return walkFiles(vaultPath, func(path string, file NoteFile, err error) error {
		result := WalkResult{Path: path, RelativePath: file.RelativePath, FileMtime: file.FileMtime}
		if err != nil {
			result.Error = err
			return handler(result)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			result.Error = err
			return handler(result)
		}

		result.Note = parser.ParseNote(file.RelativePath, string(content))
		return handler(result)
	})
}

// ListNotes returns every markdown file of the vault without reading it,
// sorted by path.
func ListNotes(vaultPath string) ([]NoteFile, error) {
	var files []NoteFile
	err := walkFiles(vaultPath, func(_ string, file NoteFile, err error) error {
		if err != nil {
			return nil //nolint:nilerr
		}
		files = append(files, file)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativePath < files[j].RelativePath
	})
	return files, nil
}

// CollectNotes walks all markdown files and returns parsed notes.
// Returns the notes and any files that had errors.
func CollectNotes(vaultPath string) ([]*parser.Note, []WalkResult, error) {
	var notes []*parser.Note
	var errs []WalkResult

	err := WalkNotes(vaultPath, func(result WalkResult) error {
		if result.Error != nil {
			errs = append(errs, result)
		} else {
			notes = append(notes, result.Note)
		}
		return nil
	})

	return notes, errs, err
}

func relPath(vaultPath, path string) string {
	rel, err := filepath.Rel(vaultPath, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
