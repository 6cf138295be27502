// Package index keeps vault metadata in a SQLite database so link, tag and
// alias lookups do not need a full vault scan.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/automoc/internal/vault"
)

// Database is the SQLite database handle.
type Database struct {
	db *sql.DB
}

var (
	// ErrIndexLocked indicates another process is rebuilding the index.
	ErrIndexLocked = errors.New("index is locked for rebuild")
	// ErrNoIndex indicates the vault has no index database yet.
	ErrNoIndex = errors.New("index not built")
)

// CurrentDBVersion is the current database schema version.
const CurrentDBVersion = 1

// Dir returns the directory holding the index of a vault.
func Dir(vaultPath string) string {
	return filepath.Join(vaultPath, vault.StateDir)
}

// DBPath returns the path of the index database of a vault.
func DBPath(vaultPath string) string {
	return filepath.Join(Dir(vaultPath), "index.db")
}

// Exists reports whether the vault has an index database.
func Exists(vaultPath string) bool {
	_, err := os.Stat(DBPath(vaultPath))
	return err == nil
}

// DB returns the underlying sql.DB for advanced queries.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Open opens or creates the database.
func Open(vaultPath string) (*Database, error) {
	if err := os.MkdirAll(Dir(vaultPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", vault.StateDir, err)
	}

	db, err := sql.Open("sqlite", DBPath(vaultPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// OpenExisting opens the index of a vault, returning ErrNoIndex when none
// has been built and ErrIncompatible when it was built by another schema
// version.
func OpenExisting(vaultPath string) (*Database, error) {
	if !Exists(vaultPath) {
		return nil, ErrNoIndex
	}
	db, err := sql.Open("sqlite", DBPath(vaultPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if !isSchemaCompatible(db) {
		db.Close()
		return nil, ErrIncompatible
	}
	return &Database{db: db}, nil
}

// ErrIncompatible indicates an index built by a different schema version.
var ErrIncompatible = errors.New("index schema is out of date")

// OpenWithRebuild opens the database, recreating it if the schema is
// incompatible. Returns (database, wasRecreated, error).
func OpenWithRebuild(vaultPath string) (*Database, bool, error) {
	lock, err := acquireIndexLock(Dir(vaultPath))
	if err != nil {
		return nil, false, err
	}
	defer lock.Release()

	dbPath := DBPath(vaultPath)
	if _, err := os.Stat(dbPath); err == nil {
		db, err := sql.Open("sqlite", dbPath)
		if err == nil {
			compatible := isSchemaCompatible(db)
			db.Close()
			if !compatible {
				if err := removeDatabaseFiles(dbPath); err != nil {
					return nil, false, err
				}
				fresh, err := Open(vaultPath)
				return fresh, true, err
			}
		}
	}

	db, err := Open(vaultPath)
	return db, false, err
}

func removeDatabaseFiles(dbPath string) error {
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// isSchemaCompatible checks the recorded schema version.
func isSchemaCompatible(db *sql.DB) bool {
	var value string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'version'`).Scan(&value); err != nil {
		return false
	}
	v, err := strconv.Atoi(value)
	return err == nil && v == CurrentDBVersion
}

// OpenInMemory opens an in-memory database (for testing).
func OpenInMemory() (*Database, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)

	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database.
func (d *Database) Close() error {
	return d.db.Close()
}

// initialize creates the database schema.
func (d *Database) initialize() error {
	schema := `
		-- Enable WAL mode for better concurrency
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		-- Metadata table for version tracking
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		-- One row per markdown file
		CREATE TABLE IF NOT EXISTS notes (
			path TEXT PRIMARY KEY,
			file_mtime INTEGER,          -- File modification time (Unix seconds)
			indexed_at INTEGER,          -- When this row was written
			frontmatter TEXT,            -- Raw YAML between the --- fences, NULL if none
			frontmatter_error TEXT       -- YAML error, NULL if none
		);

		-- Outgoing links; target is NULL when the link does not resolve
		CREATE TABLE IF NOT EXISTS links (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			target TEXT,
			target_raw TEXT NOT NULL,
			heading TEXT,
			display_text TEXT,
			line_number INTEGER NOT NULL,  -- 0-indexed
			embed INTEGER NOT NULL DEFAULT 0,
			markdown INTEGER NOT NULL DEFAULT 0
		);

		-- Tags from the body (with line) and from frontmatter (line NULL)
		CREATE TABLE IF NOT EXISTS tags (
			path TEXT NOT NULL,
			tag TEXT NOT NULL,
			line_number INTEGER,
			origin TEXT NOT NULL         -- 'body' or 'frontmatter'
		);

		CREATE TABLE IF NOT EXISTS aliases (
			path TEXT NOT NULL,
			alias TEXT NOT NULL,
			ord INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_links_source ON links(source);
		CREATE INDEX IF NOT EXISTS idx_links_target ON links(target);
		CREATE INDEX IF NOT EXISTS idx_tags_path ON tags(path);
		CREATE INDEX IF NOT EXISTS idx_tags_tag ON tags(tag);
		CREATE INDEX IF NOT EXISTS idx_aliases_path ON aliases(path);
		CREATE INDEX IF NOT EXISTS idx_aliases_alias ON aliases(alias);
	`

	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	_, err := d.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		strconv.Itoa(CurrentDBVersion))
	if err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}
	return nil
}

// Analyze updates query planner statistics after bulk indexing.
func (d *Database) Analyze() error {
	_, err := d.db.Exec("ANALYZE")
	return err
}

// Stats returns statistics about the index.
func (d *Database) Stats() (*IndexStats, error) {
	var stats IndexStats
	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM notes", &stats.NoteCount},
		{"SELECT COUNT(*) FROM links", &stats.LinkCount},
		{"SELECT COUNT(*) FROM links WHERE target IS NULL", &stats.UnresolvedCount},
		{"SELECT COUNT(*) FROM tags", &stats.TagCount},
		{"SELECT COUNT(*) FROM aliases", &stats.AliasCount},
	}
	for _, c := range counts {
		if err := d.db.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, err
		}
	}
	return &stats, nil
}

// IndexStats contains index statistics.
type IndexStats struct {
	NoteCount       int `json:"notes"`
	LinkCount       int `json:"links"`
	UnresolvedCount int `json:"unresolved_links"`
	TagCount        int `json:"tags"`
	AliasCount      int `json:"aliases"`
}
