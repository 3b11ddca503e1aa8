package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	headerAPIKey      = "apikey"
	headerContentType = "Content-Type"
	headerPrefer      = "Prefer"
	contentTypeJSON   = "application/json"

	// resolution=merge-duplicates turns the insert into an upsert on the
	// (user_id,date) unique key.
	preferUpsert = "resolution=merge-duplicates,return=minimal"
)

// TokenProvider supplies the current bearer token, or "" when anonymous.
type TokenProvider func() string

// Remote is a Storage speaking the backend's PostgREST-style REST surface.
type Remote struct {
	baseURL    string
	apiKey     string
	token      TokenProvider
	httpClient *http.Client
}

// NewRemote builds a remote Storage. token may be nil for anonymous access.
func NewRemote(baseURL, apiKey string, token TokenProvider) *Remote {
	return &Remote{
		baseURL:    baseURL,
		apiKey:     apiKey,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// APIError is a non-2xx response from the storage backend.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("store: status %d: %s", e.StatusCode, e.Message)
}

func (r *Remote) Upsert(ctx context.Context, table string, row Row) error {
	if err := validateTable(table); err != nil {
		return err
	}
	path := fmt.Sprintf("/rest/v1/%s?on_conflict=%s", table, url.QueryEscape("user_id,date"))
	return r.do(ctx, http.MethodPost, path, preferUpsert, row, nil)
}

func (r *Remote) SelectOne(ctx context.Context, table string, key Key) (Row, error) {
	if err := validateTable(table); err != nil {
		return Row{}, err
	}
	path := fmt.Sprintf("/rest/v1/%s?user_id=eq.%s&date=eq.%s",
		table, url.QueryEscape(key.UserID), url.QueryEscape(key.Date))
	var rows []Row
	if err := r.do(ctx, http.MethodGet, path, "", nil, &rows); err != nil {
		return Row{}, err
	}
	if len(rows) == 0 {
		return Row{}, ErrNotFound
	}
	return rows[0], nil
}

func (r *Remote) SelectAll(ctx context.Context, table string, userID string) ([]Row, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/rest/v1/%s?user_id=eq.%s&order=date.desc",
		table, url.QueryEscape(userID))
	var rows []Row
	if err := r.do(ctx, http.MethodGet, path, "", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// do performs one round trip and decodes the response. No retries: every
// failure is the caller's to surface or swallow per its own policy.
func (r *Remote) do(ctx context.Context, method, path, prefer string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("store: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("store: create request: %w", err)
	}
	req.Header.Set(headerAPIKey, r.apiKey)
	if r.token != nil {
		if tok := r.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}
	if prefer != "" {
		req.Header.Set(headerPrefer, prefer)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("store: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("store: parse response: %w", err)
		}
	}
	return nil
}
