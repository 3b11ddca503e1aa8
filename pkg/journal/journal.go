// Package journal is the persistence gateway for morning pages: exactly one
// entry per (user, date), written through the storage collaborator's upsert.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/pages/pkg/store"
)

const layoutISO = "2006-01-02"

// ErrNotFound reports that no entry exists yet for the requested date.
// Callers render an empty page, not a failure.
var ErrNotFound = errors.New("journal: no entry for that date")

// Entry is one day's page.
type Entry struct {
	UserID  string
	Date    string // YYYY-MM-DD
	Content string
}

// Today returns the current date in the entry key format.
func Today() string {
	return time.Now().Format(layoutISO)
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(layoutISO, s)
	return err == nil
}

// ValidReminder reports whether s is a well-formed HH:MM 24-hour time.
func ValidReminder(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// Gateway reads and writes entries. Every call is a fresh round trip; there
// are no retries and no cache.
type Gateway struct {
	Storage store.Storage
}

// Save upserts the entry for (userID, date). Saving the same content twice
// leaves exactly one row.
func (g *Gateway) Save(ctx context.Context, userID, date, content string) error {
	if g.Storage == nil {
		return errors.New("journal: no storage configured")
	}
	if userID == "" {
		return errors.New("journal: user required")
	}
	if !ValidDate(date) {
		return fmt.Errorf("journal: invalid date %q", date)
	}
	return g.Storage.Upsert(ctx, store.TableEntries, store.Row{
		UserID:  userID,
		Date:    date,
		Content: content,
	})
}

// Load returns the entry content for (userID, date), or ErrNotFound when the
// user has not written that day. Storage failures pass through unchanged.
func (g *Gateway) Load(ctx context.Context, userID, date string) (string, error) {
	if g.Storage == nil {
		return "", errors.New("journal: no storage configured")
	}
	if !ValidDate(date) {
		return "", fmt.Errorf("journal: invalid date %q", date)
	}
	row, err := g.Storage.SelectOne(ctx, store.TableEntries, store.Key{UserID: userID, Date: date})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return row.Content, nil
}

// List returns all of the user's entries, newest first.
func (g *Gateway) List(ctx context.Context, userID string) ([]Entry, error) {
	if g.Storage == nil {
		return nil, errors.New("journal: no storage configured")
	}
	rows, err := g.Storage.SelectAll(ctx, store.TableEntries, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, Entry{UserID: row.UserID, Date: row.Date, Content: row.Content})
	}
	return entries, nil
}
