package auth

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"

	"tableflip.dev/pages/pkg/session"
)

const sessionFile = "session.json"

// State is the persisted session: the bearer token plus the identity it was
// issued for. It outlives the process so a second terminal (or the OAuth
// redirect helper) can hand a session to a running client through the file.
type State struct {
	AccessToken string            `json:"access_token"`
	Identity    *session.Identity `json:"identity,omitempty"`
}

// DefaultSessionPath is ~/.pages/session.json, overridable with
// PAGES_SESSION_PATH.
func DefaultSessionPath() string {
	if override := os.Getenv("PAGES_SESSION_PATH"); override != "" {
		return override
	}
	home, err := homedir.Dir()
	if err != nil {
		return filepath.Join(".pages", sessionFile)
	}
	return filepath.Join(home, ".pages", sessionFile)
}

type cache struct {
	path string
}

func newCache(path string) *cache {
	if path == "" {
		path = DefaultSessionPath()
	}
	return &cache{path: path}
}

// load returns the persisted state, or nil when no session is cached.
func (c *cache) load() (*State, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	if st.AccessToken == "" {
		return nil, nil
	}
	return &st, nil
}

// save writes the state atomically so a concurrent load sees either the old
// or the new session, never a torn file.
func (c *cache) save(st State) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

func (c *cache) clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
