// Package paths provides canonical helpers for vault-relative note paths:
// - note names (e.g. "people/Freya.md" -> "Freya")
// - ignored-folder lists from settings (e.g. " /archive/, templates")
// - relative paths between notes for markdown links
//
// Vault-relative paths are always slash-separated, whatever the OS.
package paths

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
)

// ErrPathOutsideVault is returned when a path resolves outside the vault root.
var ErrPathOutsideVault = errors.New("path is outside vault")

// NormalizeDirRoot normalizes a directory root to have:
// - no leading slash
// - exactly one trailing slash (unless empty)
//
// Examples:
// - "/archive/" -> "archive/"
// - "archive"   -> "archive/"
// - ""          -> ""
func NormalizeDirRoot(root string) string {
	root = filepath.ToSlash(root)
	root = strings.Trim(root, "/")
	if root == "" {
		return ""
	}
	return root + "/"
}

// NormalizeRelPath normalizes a vault-relative path-like value:
// - converts OS separators to '/'
// - trims leading "./" and leading "/"
// - collapses repeated '/'
func NormalizeRelPath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// NoteName returns the file name of a note without directory or ".md".
// "people/Freya.md" -> "Freya"
func NoteName(p string) string {
	return strings.TrimSuffix(path.Base(NormalizeRelPath(p)), ".md")
}

// WithExt appends ".md" unless the path already ends with it.
func WithExt(p string) string {
	if strings.HasSuffix(strings.ToLower(p), ".md") {
		return p
	}
	return p + ".md"
}

// ParseIgnoredFolders splits a comma-separated folder list.
// Each entry is trimmed of whitespace and of one leading and one trailing
// '/'; empty entries are dropped.
//
// " /archive/, templates ,," -> ["archive", "templates"]
func ParseIgnoredFolders(s string) []string {
	var out []string
	for _, part := range strings.Split(strings.TrimSpace(s), ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "/")
		part = strings.TrimSuffix(part, "/")
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// IsIgnored reports whether the note at p lives in one of folders.
// A folder matches itself and everything below it, so "arch" does not
// match "archive/x.md".
func IsIgnored(p string, folders []string) bool {
	p = NormalizeRelPath(p)
	for _, folder := range folders {
		root := NormalizeDirRoot(folder)
		if root != "" && strings.HasPrefix(p, root) {
			return true
		}
	}
	return false
}

// Relative returns the slash-separated path of target relative to the
// directory containing from. Both are vault-relative.
//
// Relative("maps/Hub.md", "people/Freya.md") -> "../people/Freya.md"
func Relative(from, target string) string {
	fromDir := path.Dir(NormalizeRelPath(from))
	target = NormalizeRelPath(target)
	if fromDir == "." {
		return target
	}

	fromParts := strings.Split(fromDir, "/")
	targetParts := strings.Split(target, "/")

	common := 0
	for common < len(fromParts) && common < len(targetParts)-1 && fromParts[common] == targetParts[common] {
		common++
	}

	var b strings.Builder
	for i := common; i < len(fromParts); i++ {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(targetParts[common:], "/"))
	return b.String()
}

// ValidateWithinVault checks that target stays inside vaultPath once
// symlinks are resolved. A target that does not exist yet is checked
// through its parent directory.
func ValidateWithinVault(vaultPath, target string) error {
	vaultAbs, err := filepath.Abs(vaultPath)
	if err != nil {
		return err
	}
	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if resolved, err := filepath.EvalSymlinks(vaultAbs); err == nil {
		vaultAbs = resolved
	}
	if resolved, err := filepath.EvalSymlinks(targetAbs); err == nil {
		targetAbs = resolved
	} else if dir, err := filepath.EvalSymlinks(filepath.Dir(targetAbs)); err == nil {
		targetAbs = filepath.Join(dir, filepath.Base(targetAbs))
	}

	rel, err := filepath.Rel(vaultAbs, targetAbs)
	if err != nil {
		return ErrPathOutsideVault
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ErrPathOutsideVault
	}
	return nil
}
