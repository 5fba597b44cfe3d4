// Package history persists a log of executed grid refreshes: which
// predicate ran, how long it took, how many rows it matched. It
// records what ran, never restorable filter state.
package history

import (
	"database/sql"
	_ "embed"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Entry represents a single executed refresh.
type Entry struct {
	ID            int
	SessionID     string
	Source        string
	Predicate     string
	Page          int
	RowCount      int
	FilteredCount int
	Duration      time.Duration
	Success       bool
	ErrorMessage  string
	ExecutedAt    time.Time
}

// Store manages refresh history persistence.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the history database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Add appends a refresh to the history.
func (s *Store) Add(entry Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO refresh_history
		(session_id, source, predicate, page, row_count, filtered_count, duration_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SessionID,
		entry.Source,
		entry.Predicate,
		entry.Page,
		entry.RowCount,
		entry.FilteredCount,
		entry.Duration.Milliseconds(),
		entry.Success,
		entry.ErrorMessage,
	)
	return err
}

// GetRecent retrieves the most recent refreshes, newest first.
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, source, predicate, page, row_count,
		       filtered_count, duration_ms, success, error_message, executed_at
		FROM refresh_history
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Source, &e.Predicate, &e.Page,
			&e.RowCount, &e.FilteredCount, &durationMs, &e.Success, &e.ErrorMessage, &e.ExecutedAt); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear deletes all history entries.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM refresh_history`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
