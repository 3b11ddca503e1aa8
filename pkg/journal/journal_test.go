package journal

import (
	"context"
	"errors"
	"testing"

	"tableflip.dev/pages/pkg/store"
)

type memStorage struct {
	rows map[store.Key]store.Row
}

func (m *memStorage) Upsert(ctx context.Context, table string, row store.Row) error {
	if m.rows == nil {
		m.rows = map[store.Key]store.Row{}
	}
	m.rows[store.Key{UserID: row.UserID, Date: row.Date}] = row
	return nil
}

func (m *memStorage) SelectOne(ctx context.Context, table string, key store.Key) (store.Row, error) {
	row, ok := m.rows[key]
	if !ok {
		return store.Row{}, store.ErrNotFound
	}
	return row, nil
}

func (m *memStorage) SelectAll(ctx context.Context, table, userID string) ([]store.Row, error) {
	var out []store.Row
	for _, row := range m.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	g := &Gateway{Storage: &memStorage{}}
	ctx := context.Background()

	if err := g.Save(ctx, "u1", "2026-08-28", "pages"); err != nil {
		t.Fatal(err)
	}
	got, err := g.Load(ctx, "u1", "2026-08-28")
	if err != nil {
		t.Fatal(err)
	}
	if got != "pages" {
		t.Fatalf("content = %q, want %q", got, "pages")
	}
}

func TestSaveTwiceLeavesOneEntry(t *testing.T) {
	m := &memStorage{}
	g := &Gateway{Storage: m}
	ctx := context.Background()

	if err := g.Save(ctx, "u1", "2026-08-28", "draft"); err != nil {
		t.Fatal(err)
	}
	if err := g.Save(ctx, "u1", "2026-08-28", "final"); err != nil {
		t.Fatal(err)
	}

	if len(m.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(m.rows))
	}
	got, err := g.Load(ctx, "u1", "2026-08-28")
	if err != nil {
		t.Fatal(err)
	}
	if got != "final" {
		t.Fatalf("content = %q, want the second write", got)
	}
}

func TestSaveValidation(t *testing.T) {
	g := &Gateway{Storage: &memStorage{}}
	ctx := context.Background()

	if err := g.Save(ctx, "", "2026-08-28", "x"); err == nil {
		t.Fatal("expected error for missing user")
	}
	if err := g.Save(ctx, "u1", "08/28/2026", "x"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestLoadMissingIsNotFound(t *testing.T) {
	g := &Gateway{Storage: &memStorage{}}

	_, err := g.Load(context.Background(), "u1", "2026-08-28")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListScopedToUser(t *testing.T) {
	g := &Gateway{Storage: &memStorage{}}
	ctx := context.Background()

	for _, e := range []Entry{
		{UserID: "u1", Date: "2026-08-27", Content: "a"},
		{UserID: "u1", Date: "2026-08-28", Content: "b"},
		{UserID: "u2", Date: "2026-08-28", Content: "c"},
	} {
		if err := g.Save(ctx, e.UserID, e.Date, e.Content); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := g.List(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.UserID != "u1" {
			t.Fatalf("leaked entry for %q", e.UserID)
		}
	}
}

func TestValidReminder(t *testing.T) {
	for s, want := range map[string]bool{
		"08:00": true,
		"23:59": true,
		"24:00": false,
		"8am":   false,
		"":      false,
	} {
		if got := ValidReminder(s); got != want {
			t.Errorf("ValidReminder(%q) = %v, want %v", s, got, want)
		}
	}
}
