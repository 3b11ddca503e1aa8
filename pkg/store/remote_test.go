package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteUpsertRequest(t *testing.T) {
	var got *http.Request
	var body Row
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL, "anon-key", func() string { return "tok123" })
	err := remote.Upsert(context.Background(), TableEntries, Row{UserID: "u1", Date: "2026-08-28", Content: "pages"})
	if err != nil {
		t.Fatal(err)
	}

	if got.Method != http.MethodPost {
		t.Fatalf("method = %q", got.Method)
	}
	if got.URL.Path != "/rest/v1/journal_entries" {
		t.Fatalf("path = %q", got.URL.Path)
	}
	if got.URL.Query().Get("on_conflict") != "user_id,date" {
		t.Fatalf("on_conflict = %q", got.URL.Query().Get("on_conflict"))
	}
	if got.Header.Get("apikey") != "anon-key" {
		t.Fatalf("apikey header = %q", got.Header.Get("apikey"))
	}
	if got.Header.Get("Authorization") != "Bearer tok123" {
		t.Fatalf("authorization header = %q", got.Header.Get("Authorization"))
	}
	if got.Header.Get("Prefer") != "resolution=merge-duplicates,return=minimal" {
		t.Fatalf("prefer header = %q", got.Header.Get("Prefer"))
	}
	if body.UserID != "u1" || body.Date != "2026-08-28" || body.Content != "pages" {
		t.Fatalf("body = %+v", body)
	}
}

func TestRemoteSelectOne(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("user_id") != "eq.u1" || r.URL.Query().Get("date") != "eq.2026-08-28" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode([]Row{{UserID: "u1", Date: "2026-08-28", Content: "pages"}})
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL, "anon-key", nil)
	row, err := remote.SelectOne(context.Background(), TableEntries, Key{UserID: "u1", Date: "2026-08-28"})
	if err != nil {
		t.Fatal(err)
	}
	if row.Content != "pages" {
		t.Fatalf("content = %q", row.Content)
	}
}

func TestRemoteSelectOneEmptyIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL, "anon-key", nil)
	_, err := remote.SelectOne(context.Background(), TableEntries, Key{UserID: "u1", Date: "2026-08-28"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRemoteSelectAllOrdersByDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("order") != "date.desc" {
			t.Errorf("order = %q", r.URL.Query().Get("order"))
		}
		_ = json.NewEncoder(w).Encode([]Row{
			{UserID: "u1", Date: "2026-08-28"},
			{UserID: "u1", Date: "2026-08-27"},
		})
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL, "anon-key", nil)
	rows, err := remote.SelectAll(context.Background(), TableEntries, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Date != "2026-08-28" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestRemoteSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"23505","message":"duplicate key"}`))
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL, "anon-key", nil)
	err := remote.Upsert(context.Background(), TableEntries, Row{UserID: "u1", Date: "2026-08-28"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Code != "23505" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}
