package index

import (
	"database/sql"
	"fmt"
)

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// pathColumns maps each per-note table to the column naming the note.
var pathColumns = []struct{ table, column string }{
	{"notes", "path"},
	{"links", "source"},
	{"tags", "path"},
	{"aliases", "path"},
}

func deleteByNotePath(e execer, notePath string) error {
	for _, pc := range pathColumns {
		if _, err := e.Exec("DELETE FROM "+pc.table+" WHERE "+pc.column+" = ?", notePath); err != nil {
			return fmt.Errorf("delete from %s: %w", pc.table, err)
		}
	}
	return nil
}

func deleteAll(e execer) error {
	for _, pc := range pathColumns {
		if _, err := e.Exec("DELETE FROM " + pc.table); err != nil {
			return fmt.Errorf("delete from %s: %w", pc.table, err)
		}
	}
	return nil
}

// scanStrings reads a single-column result fully, closing rows.
func scanStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
