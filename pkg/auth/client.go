package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"tableflip.dev/pages/pkg/session"
)

const (
	headerAPIKey      = "apikey"
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// APIError is a non-2xx response from the auth backend.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error_code"`
	Message    string `json:"msg"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("auth: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("auth: status %d: %s", e.StatusCode, e.Message)
}

// Client is the gotrue-style REST Authenticator. Session state persists in
// the cache file; subscribers hear about every change to it, whether made by
// this process or another one writing the same file.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *cache

	mu        sync.Mutex
	subs      map[int]chan Event
	nextSubID int
	watchOnce sync.Once
}

// NewClient builds a Client. sessionPath may be empty for the default
// ~/.pages/session.json.
func NewClient(baseURL, apiKey, sessionPath string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      newCache(sessionPath),
		subs:       make(map[int]chan Event),
	}
}

// CachedIdentity returns the locally cached principal without a round trip,
// or nil when no session is cached. Headless commands use it so local-backend
// work never needs the network.
func (c *Client) CachedIdentity() *session.Identity {
	st, err := c.cache.load()
	if err != nil || st == nil {
		return nil
	}
	return st.Identity
}

// Token returns the cached bearer token, for the storage client to attach.
func (c *Client) Token() string {
	st, err := c.cache.load()
	if err != nil || st == nil {
		return ""
	}
	return st.AccessToken
}

// GetCurrentSession validates the cached token against the backend and
// returns the principal. No cached token means no session, not an error.
func (c *Client) GetCurrentSession(ctx context.Context) (*session.Identity, error) {
	st, err := c.cache.load()
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, nil
	}
	id, err := c.fetchUser(ctx, st.AccessToken)
	if err != nil {
		return nil, err
	}
	// Refresh the cached identity; metadata may have changed elsewhere.
	_ = c.cache.save(State{AccessToken: st.AccessToken, Identity: id})
	return id, nil
}

// Subscribe registers a session-change listener and lazily starts the
// session-file watch so out-of-band sign-ins surface here too.
func (c *Client) Subscribe(ctx context.Context) (*Subscription, error) {
	c.watchOnce.Do(func() {
		// A failed watch only loses cross-process changes; in-process
		// broadcasts still reach subscribers.
		_ = c.watchSessionFile(ctx)
	})

	ch := make(chan Event, 8)
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = ch
	c.mu.Unlock()

	return &Subscription{
		C: ch,
		cancel: func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		},
	}, nil
}

// SignInWithOAuth returns the provider authorize URL. The backend redirects
// the browser through the provider; the token lands in the session file out
// of band and reaches subscribers through the watch.
func (c *Client) SignInWithOAuth(_ context.Context, provider string) (string, error) {
	if strings.TrimSpace(provider) == "" {
		return "", errors.New("auth: provider required")
	}
	if c.baseURL == "" {
		return "", errors.New("auth: no backend configured")
	}
	return fmt.Sprintf("%s/auth/v1/authorize?provider=%s", c.baseURL, url.QueryEscape(provider)), nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*session.Identity, error) {
	var tok tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "",
		credentials{Email: email, Password: password}, &tok)
	if err != nil {
		return nil, err
	}
	return c.adopt(tok)
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*session.Identity, error) {
	var tok tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "",
		credentials{Email: email, Password: password}, &tok)
	if err != nil {
		return nil, err
	}
	return c.adopt(tok)
}

// SignInWithToken adopts an access token obtained elsewhere, e.g. pasted from
// the OAuth redirect. Validates it before persisting.
func (c *Client) SignInWithToken(ctx context.Context, accessToken string) (*session.Identity, error) {
	id, err := c.fetchUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if err := c.cache.save(State{AccessToken: accessToken, Identity: id}); err != nil {
		return nil, err
	}
	c.broadcast(Event{Identity: id})
	return id, nil
}

// UpdateProfile merges fields into the principal's metadata and refreshes the
// cached identity. Subscribers see the updated principal as a session-change
// event that must not move them off their current screen.
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]string) error {
	st, err := c.cache.load()
	if err != nil {
		return err
	}
	if st == nil {
		return errors.New("auth: not signed in")
	}
	var user userPayload
	if err := c.do(ctx, http.MethodPut, "/auth/v1/user", st.AccessToken,
		profileUpdate{Data: fields}, &user); err != nil {
		return err
	}
	id := user.identity()
	if err := c.cache.save(State{AccessToken: st.AccessToken, Identity: id}); err != nil {
		return err
	}
	c.broadcast(Event{Identity: id})
	return nil
}

// SignOut revokes the token server-side and clears the cached session. The
// local session is cleared even when the revoke call fails so client state
// never disagrees with the visible screen.
func (c *Client) SignOut(ctx context.Context) error {
	st, loadErr := c.cache.load()

	var revokeErr error
	if loadErr == nil && st != nil {
		revokeErr = c.do(ctx, http.MethodPost, "/auth/v1/logout", st.AccessToken, nil, nil)
	}

	clearErr := c.cache.clear()
	c.broadcast(Event{})

	if revokeErr != nil {
		return revokeErr
	}
	return clearErr
}

// ---- wire types ----

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileUpdate struct {
	Data map[string]string `json:"data"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	User        userPayload `json:"user"`
}

type userPayload struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata userMetadata `json:"user_metadata"`
}

type userMetadata struct {
	Name         string `json:"name"`
	ReminderTime string `json:"reminder_time"`
}

func (u userPayload) identity() *session.Identity {
	return &session.Identity{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.UserMetadata.Name,
		ReminderTime: u.UserMetadata.ReminderTime,
	}
}

// ---- internals ----

func (c *Client) adopt(tok tokenResponse) (*session.Identity, error) {
	if tok.AccessToken == "" {
		return nil, errors.New("auth: backend returned no access token")
	}
	id := tok.User.identity()
	if err := c.cache.save(State{AccessToken: tok.AccessToken, Identity: id}); err != nil {
		return nil, err
	}
	c.broadcast(Event{Identity: id})
	return id, nil
}

func (c *Client) fetchUser(ctx context.Context, token string) (*session.Identity, error) {
	var user userPayload
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", token, nil, &user); err != nil {
		return nil, err
	}
	return user.identity(), nil
}

// broadcast delivers to every subscriber without blocking; a full subscriber
// drops the event, the same policy the store watch uses for UI refreshes.
func (c *Client) broadcast(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, result interface{}) error {
	if c.baseURL == "" {
		return errors.New("auth: no backend configured")
	}
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("auth: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("auth: create request: %w", err)
	}
	req.Header.Set(headerAPIKey, c.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("auth: read response: %w", err)
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
			return fmt.Errorf("auth: parse response: %w", err)
		}
	}
	return nil
}
