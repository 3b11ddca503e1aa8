// Package store provides the storage collaborator for journal rows: a keyed
// upsert/select interface with a diskv-backed local implementation and a
// PostgREST-style remote one.
package store

import (
	"context"
	"errors"
)

// TableEntries is the single table this client writes.
const TableEntries = "journal_entries"

// ErrNotFound reports that no row exists for the requested key. It is
// distinct from transport or backend failures; callers render an empty state
// for it instead of an error.
var ErrNotFound = errors.New("store: row not found")

// Key identifies exactly one journal row.
type Key struct {
	UserID string
	Date   string // YYYY-MM-DD
}

// Row is a single journal record as the backend stores it.
type Row struct {
	UserID  string `json:"user_id"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// Storage is the storage collaborator contract. Every call is a fresh round
// trip; implementations perform no retries and no caching.
type Storage interface {
	// Upsert writes the row keyed by (UserID, Date), replacing any existing
	// content for that key. Atomic from the caller's point of view.
	Upsert(ctx context.Context, table string, row Row) error

	// SelectOne returns the row for the key, or ErrNotFound.
	SelectOne(ctx context.Context, table string, key Key) (Row, error)

	// SelectAll returns every row belonging to the user, date-descending.
	SelectAll(ctx context.Context, table string, userID string) ([]Row, error)
}

// Load builds a Storage from config, choosing the local or remote backend.
func Load(cfg Config) (Storage, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	if cfg.Backend() == BackendRemote {
		return NewRemote(cfg.BaseURL(), cfg.APIKey(), nil), nil
	}
	return NewLocal(cfg.BasePath())
}
