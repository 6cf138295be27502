package index

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aidanlsb/automoc/internal/parser"
	"github.com/aidanlsb/automoc/internal/resolver"
	"github.com/aidanlsb/automoc/internal/vault"
)

// IndexNote replaces everything indexed for one note. Links are resolved
// against res. fileMtime is the file's modification time (Unix seconds);
// 0 records the current time.
func (d *Database) IndexNote(note *parser.Note, fileMtime int64, res *resolver.Resolver) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := indexNote(tx, note, fileMtime, res, time.Now().Unix()); err != nil {
		return err
	}
	return tx.Commit()
}

func indexNote(tx *sql.Tx, note *parser.Note, fileMtime int64, res *resolver.Resolver, now int64) error {
	if err := deleteByNotePath(tx, note.Path); err != nil {
		return err
	}

	mtime := fileMtime
	if mtime <= 0 {
		mtime = now
	}

	var raw, fmErr sql.NullString
	if note.Frontmatter != nil {
		raw = sql.NullString{String: note.Frontmatter.Raw, Valid: true}
	}
	if note.FrontmatterErr != nil {
		fmErr = sql.NullString{String: note.FrontmatterErr.Error(), Valid: true}
	}
	if _, err := tx.Exec(
		`INSERT INTO notes (path, file_mtime, indexed_at, frontmatter, frontmatter_error) VALUES (?, ?, ?, ?, ?)`,
		note.Path, mtime, now, raw, fmErr,
	); err != nil {
		return fmt.Errorf("insert note %s: %w", note.Path, err)
	}

	if err := indexLinks(tx, note, res); err != nil {
		return err
	}
	if err := indexTags(tx, note); err != nil {
		return err
	}
	return indexAliases(tx, note)
}

func indexLinks(tx *sql.Tx, note *parser.Note, res *resolver.Resolver) error {
	stmt, err := tx.Prepare(`
		INSERT INTO links (source, target, target_raw, heading, display_text, line_number, embed, markdown)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, link := range note.Links {
		var target sql.NullString
		if res != nil {
			if r := res.Resolve(link.Target, note.Path); r.Path != "" {
				target = sql.NullString{String: r.Path, Valid: true}
			}
		}
		if _, err := stmt.Exec(
			note.Path, target, link.Target, link.Heading, link.Display,
			link.Line, boolInt(link.Embed), boolInt(link.Markdown),
		); err != nil {
			return fmt.Errorf("insert link in %s: %w", note.Path, err)
		}
	}
	return nil
}

func indexTags(tx *sql.Tx, note *parser.Note) error {
	stmt, err := tx.Prepare(`INSERT INTO tags (path, tag, line_number, origin) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, tag := range note.Tags {
		if _, err := stmt.Exec(note.Path, tag.Name, tag.Line, originBody); err != nil {
			return fmt.Errorf("insert tag in %s: %w", note.Path, err)
		}
	}
	for _, tag := range note.Frontmatter.TagValues() {
		if _, err := stmt.Exec(note.Path, tag, nil, originFrontmatter); err != nil {
			return fmt.Errorf("insert tag in %s: %w", note.Path, err)
		}
	}
	return nil
}

func indexAliases(tx *sql.Tx, note *parser.Note) error {
	for i, alias := range note.Frontmatter.AliasValues() {
		if _, err := tx.Exec(`INSERT INTO aliases (path, alias, ord) VALUES (?, ?, ?)`, note.Path, alias, i); err != nil {
			return fmt.Errorf("insert alias in %s: %w", note.Path, err)
		}
	}
	return nil
}

const (
	originBody        = "body"
	originFrontmatter = "frontmatter"
)

// RemoveNote removes all data for a note.
func (d *Database) RemoveNote(notePath string) error {
	return deleteByNotePath(d.db, notePath)
}

// RebuildResult summarizes a full rebuild.
type RebuildResult struct {
	Indexed  int                `json:"indexed"`
	Failed   []vault.WalkResult `json:"-"`
	Duration time.Duration      `json:"-"`
}

// Rebuild re-indexes every note of the vault from scratch, in one
// transaction, while holding the index lock. Notes that cannot be read are
// reported in the result and left out.
func Rebuild(vaultPath string) (*RebuildResult, error) {
	start := time.Now()

	db, _, err := OpenWithRebuild(vaultPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	result, err := db.Resync(vaultPath)
	if err != nil {
		return nil, err
	}
	if err := db.Analyze(); err != nil {
		return nil, fmt.Errorf("analyze index: %w", err)
	}
	result.Duration = time.Since(start)
	return result, nil
}

// Resync re-indexes every note into an open database while holding the
// index lock.
func (d *Database) Resync(vaultPath string) (*RebuildResult, error) {
	lock, err := acquireIndexLock(Dir(vaultPath))
	if err != nil {
		return nil, err
	}
	defer lock.Release()
	return d.rebuildFrom(vaultPath)
}

func (d *Database) rebuildFrom(vaultPath string) (*RebuildResult, error) {
	type scanned struct {
		note  *parser.Note
		mtime int64
	}
	var notes []scanned
	result := &RebuildResult{}

	err := vault.WalkNotes(vaultPath, func(r vault.WalkResult) error {
		if r.Error != nil {
			result.Failed = append(result.Failed, r)
			return nil
		}
		notes = append(notes, scanned{note: r.Note, mtime: r.FileMtime})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk vault: %w", err)
	}

	all := make([]string, len(notes))
	for i, n := range notes {
		all[i] = n.note.Path
	}
	res := resolver.New(all)

	tx, err := d.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := deleteAll(tx); err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	for _, n := range notes {
		if err := indexNote(tx, n.note, n.mtime, res, now); err != nil {
			return nil, err
		}
		result.Indexed++
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}
