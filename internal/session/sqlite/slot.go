// Package sqlite backs the session slot with an embedded SQLite file.
// modernc.org/sqlite is a pure Go translation of SQLite, so no C toolchain is
// needed and ":memory:" works for tests. The slot is a single keyed row in a
// key-value table; the session store is its only writer.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const slotKey = "identity"

// Slot implements session.Slot on a SQLite database.
type Slot struct {
	conn *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Slot, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS session_slot (
			k TEXT PRIMARY KEY,
			v BLOB NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: creating session_slot table: %w", err)
	}
	return &Slot{conn: conn}, nil
}

func (s *Slot) Close() error {
	return s.conn.Close()
}

// Read returns the stored value, with present=false when the slot is empty.
func (s *Slot) Read(ctx context.Context) ([]byte, bool, error) {
	var value []byte
	err := s.conn.QueryRowContext(ctx,
		`SELECT v FROM session_slot WHERE k = ?`, slotKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: reading session slot: %w", err)
	}
	return value, true, nil
}

// Write replaces the slot value.
func (s *Slot) Write(ctx context.Context, value []byte) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO session_slot (k, v, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = CURRENT_TIMESTAMP
	`, slotKey, value)
	if err != nil {
		return fmt.Errorf("sqlite: writing session slot: %w", err)
	}
	return nil
}

// Clear empties the slot. Clearing an already-empty slot is not an error.
func (s *Slot) Clear(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx,
		`DELETE FROM session_slot WHERE k = ?`, slotKey,
	)
	if err != nil {
		return fmt.Errorf("sqlite: clearing session slot: %w", err)
	}
	return nil
}
