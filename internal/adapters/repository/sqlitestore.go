package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/kickout/internal/domain/model"
)

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS entries (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// SQLiteStore keeps the entry as one row of the entries table.
type SQLiteStore struct {
	db  *sql.DB
	key string
}

// NewSQLiteStore opens dsn, configures WAL mode and ensures the schema.
func NewSQLiteStore(ctx context.Context, dsn, key string) (*SQLiteStore, error) {
	if key == "" {
		key = DefaultKey
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One connection keeps :memory: databases shared across calls.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: exec %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteMigration); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return &SQLiteStore{db: db, key: key}, nil
}

// Load selects the entry row.
func (s *SQLiteStore) Load(ctx context.Context) ([]model.Record, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM entries WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load: %w", err)
	}
	return decode([]byte(value))
}

// Save upserts the entry row.
func (s *SQLiteStore) Save(ctx context.Context, log []model.Record) error {
	b, err := encode(log)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO entries (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, string(b), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sqlite: save: %w", err)
	}
	return nil
}

// Remove deletes the entry row.
func (s *SQLiteStore) Remove(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, s.key); err != nil {
		return fmt.Errorf("sqlite: remove: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
