// Package repository provides the durable key/value store behind the client
// session, the counterpart of browser localStorage.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLStorage implements string key/value storage over a local_storage table.
// It works against both SQLite and PostgreSQL.
type SQLStorage struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
	// now is swapped in tests.
	now func() time.Time
}

// NewSQLStorage creates a SQLStorage using the provided *sql.DB.
func NewSQLStorage(db *sql.DB) *SQLStorage {
	return &SQLStorage{DB: db, now: time.Now}
}

// Get returns the value stored under key. Expired entries read as missing.
//
//	ctx: context for cancellation and deadlines
//	key: storage key, e.g. "token"
//
// Returns the value, whether it was present, and any query error.
func (s *SQLStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, `
		SELECT value FROM local_storage WHERE key = $1 AND (expires_at = 0 OR expires_at > $2)
	`, key, s.now().Unix()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Entry is one key/value pair.
type Entry struct {
	Key   string
	Value string
}

// Set writes every entry in one transaction, replacing existing values.
// expiresAt is a unix timestamp applied to all entries; 0 never expires.
func (s *SQLStorage) Set(ctx context.Context, expiresAt int64, entries ...Entry) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO local_storage (key, value, expires_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (key) DO UPDATE SET
				value = EXCLUDED.value,
				expires_at = EXCLUDED.expires_at
		`, e.Key, e.Value, expiresAt)
		if err != nil {
			return fmt.Errorf("set %q: %w", e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (s *SQLStorage) Clear(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM local_storage`); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}
