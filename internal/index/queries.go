package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aidanlsb/automoc/internal/graph"
	"github.com/aidanlsb/automoc/internal/parser"
	"github.com/aidanlsb/automoc/internal/resolver"
	"github.com/aidanlsb/automoc/internal/vault"
)

var (
	_ graph.Metadata   = (*Database)(nil)
	_ graph.Backlinker = (*Database)(nil)
	_ graph.Vocabulary = (*Database)(nil)
)

// Notes returns every indexed note path, sorted.
func (d *Database) Notes() ([]string, error) {
	rows, err := d.db.Query(`SELECT path FROM notes ORDER BY path`)
	if err != nil {
		return nil, err
	}
	return scanStrings(rows)
}

func (d *Database) requireNote(notePath string) error {
	var one int
	err := d.db.QueryRow(`SELECT 1 FROM notes WHERE path = ?`, notePath).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", graph.ErrUnknownNote, notePath)
	}
	return err
}

// ResolvedLinksOf returns how often a note links to each resolved target.
func (d *Database) ResolvedLinksOf(notePath string) (map[string]int, error) {
	if err := d.requireNote(notePath); err != nil {
		return nil, err
	}
	rows, err := d.db.Query(`
		SELECT target, COUNT(*) FROM links
		WHERE source = ? AND target IS NOT NULL
		GROUP BY target
	`, notePath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var target string
		var n int
		if err := rows.Scan(&target, &n); err != nil {
			return nil, err
		}
		out[target] = n
	}
	return out, rows.Err()
}

// TagsOf returns the inline body tags of a note in line order.
func (d *Database) TagsOf(notePath string) ([]parser.Tag, error) {
	if err := d.requireNote(notePath); err != nil {
		return nil, err
	}
	rows, err := d.db.Query(`
		SELECT tag, line_number FROM tags
		WHERE path = ? AND origin = ?
		ORDER BY line_number, rowid
	`, notePath, originBody)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []parser.Tag
	for rows.Next() {
		var t parser.Tag
		if err := rows.Scan(&t.Name, &t.Line); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// FrontmatterOf re-parses the stored frontmatter of a note. It returns nil
// when the note has none or it failed to parse at index time.
func (d *Database) FrontmatterOf(notePath string) (*parser.Frontmatter, error) {
	var raw sql.NullString
	err := d.db.QueryRow(`SELECT frontmatter FROM notes WHERE path = ?`, notePath).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", graph.ErrUnknownNote, notePath)
	}
	if err != nil {
		return nil, err
	}
	if !raw.Valid {
		return nil, nil
	}

	block := "---\n---"
	if raw.String != "" {
		block = "---\n" + raw.String + "\n---"
	}
	return parser.ParseFrontmatter(block)
}

// BacklinksFor returns every note with a resolved link to notePath, sorted
// by source path, each with the lines its links sit on.
func (d *Database) BacklinksFor(notePath string) ([]graph.Backlink, error) {
	rows, err := d.db.Query(`
		SELECT source, line_number FROM links
		WHERE target = ?
		ORDER BY source, line_number
	`, notePath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []graph.Backlink
	for rows.Next() {
		var source string
		var line int
		if err := rows.Scan(&source, &line); err != nil {
			return nil, err
		}
		if n := len(out); n > 0 && out[n-1].Source == source {
			if last := out[n-1].Lines; last[len(last)-1] != line {
				out[n-1].Lines = append(out[n-1].Lines, line)
			}
			continue
		}
		out = append(out, graph.Backlink{Source: source, Lines: []int{line}})
	}
	return out, rows.Err()
}

// AllTags returns every distinct tag name in the vault, body and
// frontmatter, sorted and without '#'.
func (d *Database) AllTags() ([]string, error) {
	rows, err := d.db.Query(`SELECT DISTINCT tag FROM tags ORDER BY tag`)
	if err != nil {
		return nil, err
	}
	return scanStrings(rows)
}

// AllAliases returns every distinct frontmatter alias, sorted.
func (d *Database) AllAliases() ([]string, error) {
	rows, err := d.db.Query(`SELECT DISTINCT alias FROM aliases ORDER BY alias`)
	if err != nil {
		return nil, err
	}
	return scanStrings(rows)
}

// Resolver builds a link resolver over every indexed note.
func (d *Database) Resolver() (*resolver.Resolver, error) {
	notes, err := d.Notes()
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return resolver.New(notes), nil
}

// StalenessInfo contains information about index freshness.
type StalenessInfo struct {
	IsStale      bool     `json:"stale"`
	StaleFiles   []string `json:"stale_files,omitempty"`   // Changed or deleted since indexing
	NewFiles     []string `json:"new_files,omitempty"`     // On disk but not indexed
	TotalIndexed int      `json:"total_indexed"`
}

// CheckStaleness compares the index against the vault on disk: a note
// changed after it was indexed, deleted, or created since makes the index
// stale.
func (d *Database) CheckStaleness(vaultPath string) (*StalenessInfo, error) {
	indexed, err := d.indexedMtimes()
	if err != nil {
		return nil, err
	}
	info := &StalenessInfo{TotalIndexed: len(indexed)}

	files, err := vault.ListNotes(vaultPath)
	if err != nil {
		return nil, err
	}
	onDisk := make(map[string]bool, len(files))
	for _, f := range files {
		onDisk[f.RelativePath] = true
		mtime, ok := indexed[f.RelativePath]
		switch {
		case !ok:
			info.NewFiles = append(info.NewFiles, f.RelativePath)
		case !mtime.Valid || f.FileMtime > mtime.Int64:
			info.StaleFiles = append(info.StaleFiles, f.RelativePath)
		}
	}

	notes, err := d.Notes()
	if err != nil {
		return nil, err
	}
	for _, p := range notes {
		if !onDisk[p] && fileMissing(filepath.Join(vaultPath, filepath.FromSlash(p))) {
			info.StaleFiles = append(info.StaleFiles, p)
		}
	}

	info.IsStale = len(info.StaleFiles) > 0 || len(info.NewFiles) > 0
	return info, nil
}

func (d *Database) indexedMtimes() (map[string]sql.NullInt64, error) {
	rows, err := d.db.Query(`SELECT path, file_mtime FROM notes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]sql.NullInt64)
	for rows.Next() {
		var p string
		var mtime sql.NullInt64
		if err := rows.Scan(&p, &mtime); err != nil {
			return nil, err
		}
		out[p] = mtime
	}
	return out, rows.Err()
}

func fileMissing(fullPath string) bool {
	_, err := os.Stat(fullPath)
	return os.IsNotExist(err)
}
