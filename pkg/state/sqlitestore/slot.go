// Package sqlitestore implements state.Slot on a single SQLite table using
// the pure Go modernc.org/sqlite driver.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-storefront/pkg/state"
)

const schema = `
CREATE TABLE IF NOT EXISTS storefront_slots (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at DATETIME NOT NULL
);`

// Slot stores values in the storefront_slots table.
type Slot struct {
	db  *sql.DB
	now func() time.Time
}

var _ state.Slot = (*Slot)(nil)

// Open connects to dsn (a file path or "file::memory:?cache=shared") and
// ensures the table exists.
func Open(ctx context.Context, dsn string) (*Slot, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: ping: %w", err)
	}
	slot, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return slot, nil
}

// New wraps an existing handle. The caller keeps ownership of db.
func New(ctx context.Context, db *sql.DB) (*Slot, error) {
	if db == nil {
		return nil, errors.New("sqlitestore: db is required")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("sqlitestore: create schema: %w", err)
	}
	return &Slot{db: db, now: time.Now}, nil
}

func (s *Slot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM storefront_slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlitestore: get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Slot) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO storefront_slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UTC())
	if err != nil {
		return fmt.Errorf("sqlitestore: set %q: %w", key, err)
	}
	return nil
}

func (s *Slot) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM storefront_slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlitestore: delete %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Slot) Close() error {
	return s.db.Close()
}
