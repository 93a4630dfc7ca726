// Package history provides a SQLite-backed journal of engine invocations.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// Entry is one journaled invocation.
type Entry struct {
	ID      int64     `json:"id"`
	Tokens  []string  `json:"tokens"`
	Primary string    `json:"primary"`
	Outcome string    `json:"outcome"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

// Journal stores invocation entries.
type Journal struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at dir/history.db.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	dbPath := filepath.Join(dir, "history.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite3: %w", err)
	}
	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error { return j.db.Close() }

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	tokens  TEXT NOT NULL,
	primary_command TEXT NOT NULL,
	outcome TEXT NOT NULL,
	error   TEXT NOT NULL DEFAULT '',
	at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS invocations_primary ON invocations (primary_command);
`

func (j *Journal) migrate() error {
	_, err := j.db.Exec(schema)
	return err
}

// Record appends e. A zero At is stamped with the current time.
func (j *Journal) Record(e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	tokens, err := json.Marshal(e.Tokens)
	if err != nil {
		return err
	}
	_, err = j.db.Exec(
		`INSERT INTO invocations (tokens, primary_command, outcome, error, at) VALUES (?,?,?,?,?)`,
		string(tokens), e.Primary, e.Outcome, e.Error, e.At.UnixNano(),
	)
	return err
}

// List returns the newest entries first. A limit of zero or less returns all.
func (j *Journal) List(limit int) ([]Entry, error) {
	query := `SELECT id, tokens, primary_command, outcome, error, at FROM invocations ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			tokens string
			at     int64
		)
		if err := rows.Scan(&e.ID, &tokens, &e.Primary, &e.Outcome, &e.Error, &at); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tokens), &e.Tokens); err != nil {
			return nil, fmt.Errorf("entry %d: %w", e.ID, err)
		}
		e.At = time.Unix(0, at)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes all entries.
func (j *Journal) Clear() error {
	_, err := j.db.Exec(`DELETE FROM invocations`)
	return err
}

// ClearCommand removes the entries whose primary command is name.
func (j *Journal) ClearCommand(name string) error {
	_, err := j.db.Exec(`DELETE FROM invocations WHERE primary_command = ?`, name)
	return err
}

// Commands returns the distinct primary command names in the journal.
func (j *Journal) Commands() ([]string, error) {
	rows, err := j.db.Query(`SELECT DISTINCT primary_command FROM invocations WHERE primary_command != '' ORDER BY primary_command`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
