package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens (creating if necessary) the file-backed SQLite database at path
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database %s: %w", path, err)
	}

	return db, nil
}

// knownAddedColumns lists columns introduced after the original call_reports
// schema shipped. EnsureSchema adds them with null-allowing definitions when
// an older database lacks them; nothing is ever dropped or renamed.
var knownAddedColumns = []struct {
	name string
	ddl  string
}{
	{"company_improvements", "ALTER TABLE call_reports ADD COLUMN company_improvements TEXT"},
}

// EnsureSchema creates the call_reports table if absent and adds any
// known-added column an older database is missing. It is idempotent and safe
// to run on every process start; the DDL is purely additive, so concurrent
// callers converge on the same final schema.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS call_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_name TEXT DEFAULT 'Unknown',
			agent_name TEXT DEFAULT 'Unknown',
			customer_satisfied TEXT CHECK(customer_satisfied IN ('Yes', 'No')),
			company_improvements TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create call_reports table: %w", err)
	}

	existing, err := tableColumns(db, "call_reports")
	if err != nil {
		return err
	}

	for _, col := range knownAddedColumns {
		if existing[col.name] {
			continue
		}
		if _, err := db.Exec(col.ddl); err != nil {
			return fmt.Errorf("failed to add column %s: %w", col.name, err)
		}
	}

	return nil
}

// tableColumns returns the set of column names currently on a table
func tableColumns(db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s schema: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan table info: %w", err)
		}
		columns[name] = true
	}
	return columns, rows.Err()
}
