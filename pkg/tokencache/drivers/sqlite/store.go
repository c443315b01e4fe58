// Package sqlite provides a file-backed credential store. It suits
// deployments without a Redis to share: expiry is enforced by an expires_at
// column checked on read, so semantics match the redis driver as long as a
// single host owns the database file.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Store implements the tokencache.Store port over a SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (or creates) the database at dsn and applies pending
// migrations. Use ":memory:" for a throwaway store.
func NewStore(dsn string) (*Store, error) {
	return NewStoreWithClock(dsn, time.Now)
}

// NewStoreWithClock is NewStore with an injectable clock for expiry tests.
func NewStoreWithClock(dsn string, now func() time.Time) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases coherent; the store's
	// traffic is far too light for pooling to matter.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: now}
	if err := s.applyMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value     string
		expiresAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM credentials WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if expiresAt.Valid && expiresAt.Int64 <= s.now().Unix() {
		// Expired rows are reaped lazily; a failed delete only delays it.
		_, _ = s.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key)
		return "", false, nil
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (key, value, expires_at) VALUES (?, ?, NULL)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = NULL`,
		key, value)
	return err
}

func (s *Store) SetTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	expiresAt := s.now().Add(ttl).Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt)
	return err
}
