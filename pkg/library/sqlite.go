package library

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS postures (
	key     TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	kind    TEXT NOT NULL DEFAULT '',
	saved   TEXT NOT NULL,
	posture TEXT NOT NULL
)`

// SQLiteStore keeps one row per entry in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load returns every row ordered by key.
func (s *SQLiteStore) Load() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT name, kind, saved, posture FROM postures ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e          Entry
			saved, raw string
		)
		if err := rows.Scan(&e.Name, &e.Kind, &saved, &raw); err != nil {
			return nil, err
		}
		if e.Saved, err = time.Parse(time.RFC3339Nano, saved); err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Name, err)
		}
		if err := json.Unmarshal([]byte(raw), &e.Posture); err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Name, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Put upserts the row for key.
func (s *SQLiteStore) Put(key string, e Entry) error {
	raw, err := json.Marshal(e.Posture)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO postures (key, name, kind, saved, posture) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET name = excluded.name, kind = excluded.kind,
			saved = excluded.saved, posture = excluded.posture`,
		key, e.Name, e.Kind, e.Saved.Format(time.RFC3339Nano), string(raw))
	return err
}

// Delete removes the row for key.
func (s *SQLiteStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM postures WHERE key = ?`, key)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
