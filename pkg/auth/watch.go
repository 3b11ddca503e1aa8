package auth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSessionFile streams changes to the session cache file into the
// subscriber broadcast until ctx is cancelled. This is how an OAuth redirect
// helper or a second terminal signing in/out becomes a session-change event
// in this process.
func (c *Client) watchSessionFile(ctx context.Context) error {
	dir := filepath.Dir(c.cache.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("auth: ensure session dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("auth: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "auth: watcher close: %v\n", err)
			}
		})
	}

	if err := watcher.Add(dir); err != nil {
		closeWatcher()
		return fmt.Errorf("auth: watch %s: %w", dir, err)
	}

	go func() {
		defer closeWatcher()

		// Coalesce write+rename bursts so one sign-in produces one event.
		var mu sync.Mutex
		var timer *time.Timer
		schedule := func() {
			mu.Lock()
			defer mu.Unlock()
			if timer != nil {
				return
			}
			timer = time.AfterFunc(100*time.Millisecond, func() {
				mu.Lock()
				timer = nil
				mu.Unlock()
				c.emitFromFile()
			})
		}

		for {
			select {
			case <-ctx.Done():
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				mu.Unlock()
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Re-read the file; an unclassifiable error still means the
				// state may have moved.
				schedule()
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != filepath.Clean(c.cache.path) {
					continue
				}
				schedule()
			}
		}
	}()

	return nil
}

// emitFromFile broadcasts whatever the session file currently holds.
func (c *Client) emitFromFile() {
	st, err := c.cache.load()
	if err != nil || st == nil {
		c.broadcast(Event{})
		return
	}
	c.broadcast(Event{Identity: st.Identity})
}
