// Package sqlite persists session state (cart, wishlist) in an embedded
// database, the service's analog of browser local storage: one value per
// key, fully rewritten on every mutation.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS state(
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
);`

// State keys.
const (
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
)

// State is the key-value store backing the persisted collections.
type State struct {
	db *sqlx.DB
}

// Open opens (creating if necessary) the state database at path.
func Open(ctx context.Context, path string) (*State, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open state db")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping state db")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create state schema")
	}
	return &State{db: db}, nil
}

// Close closes the underlying database.
func (s *State) Close() error {
	return s.db.Close()
}

// Ping checks database availability; used as a readiness probe.
func (s *State) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Get returns the value stored under key. ok is false when the key is
// absent.
func (s *State) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	err = s.db.GetContext(ctx, &value, `SELECT value FROM state WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "get state %q", key)
	}
	return value, true, nil
}

// Put stores value under key, replacing any prior value.
func (s *State) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO state(key, value, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return errors.Wrapf(err, "put state %q", key)
	}
	return nil
}
