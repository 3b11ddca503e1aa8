// Package flow is the screen-navigation and session controller: which screen
// is visible, which principal is signed in, and how collaborator events move
// both. All transitions are user actions or the two forced paths (initial
// session found, sign-out event); everything else is a no-op by construction.
package flow

import (
	"context"
	"errors"
	"sync"

	"tableflip.dev/pages/pkg/auth"
	"tableflip.dev/pages/pkg/journal"
	"tableflip.dev/pages/pkg/notify"
	"tableflip.dev/pages/pkg/session"
)

// Controller owns the navigation state for one running client. Create it
// once at process start; it lives for the process.
type Controller struct {
	authn    auth.Authenticator
	gateway  *journal.Gateway
	notifier notify.Notifier

	mu      sync.Mutex
	screen  Screen
	sess    *session.Session
	refresh int

	sub       *auth.Subscription
	closeOnce sync.Once
	changed   chan struct{}
}

// Snapshot is a consistent copy of the controller state for rendering.
type Snapshot struct {
	Screen  Screen
	Session *session.Session
	Refresh int
}

// New builds a Controller on the welcome screen with no session.
func New(a auth.Authenticator, g *journal.Gateway, n notify.Notifier) *Controller {
	if n == nil {
		n = notify.Discard{}
	}
	return &Controller{
		authn:    a,
		gateway:  g,
		notifier: n,
		screen:   Welcome{},
		changed:  make(chan struct{}, 1),
	}
}

// State returns a snapshot; the session is a copy.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Screen: c.screen, Session: c.sess.Clone(), Refresh: c.refresh}
}

// Changed signals after every state mutation; at-most-one pending tick.
func (c *Controller) Changed() <-chan struct{} { return c.changed }

func (c *Controller) notifyChanged() {
	select {
	case c.changed <- struct{}{}:
	default:
	}
}

// Initialize queries for an existing session once. Found → adopt and land on
// home; absent or failed → stay on welcome, silently.
func (c *Controller) Initialize(ctx context.Context) {
	id, err := c.authn.GetCurrentSession(ctx)
	if err != nil || id == nil {
		return
	}
	c.mu.Lock()
	c.sess = session.FromIdentity(*id)
	c.screen = Home{}
	c.mu.Unlock()
	c.notifyChanged()
}

// Start registers the session-change subscription and drains it until ctx is
// done. Close releases the subscription; calling Close more than once is
// safe, the release runs once.
func (c *Controller) Start(ctx context.Context) error {
	sub, err := c.authn.Subscribe(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.Close()
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				c.handleSessionEvent(ev)
			}
		}
	}()
	return nil
}

// Close releases the session-change subscription.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		sub := c.sub
		c.mu.Unlock()
		if sub != nil {
			sub.Unsubscribe()
		}
	})
}

// handleSessionEvent applies one push notification. An authenticated event
// adopts the principal's values; it moves the screen only when the user was
// still on a pre-auth screen with no session — the deferred OAuth completion.
// Token refreshes and profile updates therefore never interrupt the screen
// the user is on. An unauthenticated event forces welcome from anywhere.
func (c *Controller) handleSessionEvent(ev auth.Event) {
	c.mu.Lock()
	if ev.Authenticated() {
		fresh := c.sess == nil
		c.sess = session.FromIdentity(*ev.Identity)
		if fresh {
			switch c.screen.(type) {
			case Welcome, Login:
				c.screen = Home{}
			}
		}
	} else {
		c.sess = nil
		c.screen = Welcome{}
	}
	c.mu.Unlock()
	c.notifyChanged()
}

// ---- pre-auth transitions ----

// GetStarted moves welcome → login.
func (c *Controller) GetStarted() {
	c.transition(func() bool {
		if _, ok := c.screen.(Welcome); !ok {
			return false
		}
		c.screen = Login{}
		return true
	})
}

// ChooseEmailAuth moves login → email-auth.
func (c *Controller) ChooseEmailAuth() {
	c.transition(func() bool {
		if _, ok := c.screen.(Login); !ok {
			return false
		}
		c.screen = EmailAuth{}
		return true
	})
}

// BackToLogin moves email-auth → login.
func (c *Controller) BackToLogin() {
	c.transition(func() bool {
		if _, ok := c.screen.(EmailAuth); !ok {
			return false
		}
		c.screen = Login{}
		return true
	})
}

// OAuthLogin starts the provider flow from the login screen and returns the
// authorize URL to show the user. The screen does not move; the eventual
// session-change event drives the real transition. Failure surfaces and
// stays on login.
func (c *Controller) OAuthLogin(ctx context.Context, provider string) (string, error) {
	c.mu.Lock()
	if _, ok := c.screen.(Login); !ok {
		c.mu.Unlock()
		return "", errors.New("flow: not on the login screen")
	}
	c.mu.Unlock()

	url, err := c.authn.SignInWithOAuth(ctx, provider)
	if err != nil {
		c.notifier.Error("Could not start " + provider + " sign-in: " + err.Error())
		return "", err
	}
	return url, nil
}

// EmailSignIn authenticates with email+password from the email-auth screen.
func (c *Controller) EmailSignIn(ctx context.Context, email, password string) error {
	return c.emailAuth(ctx, email, password, false)
}

// EmailSignUp registers a new account from the email-auth screen.
func (c *Controller) EmailSignUp(ctx context.Context, email, password string) error {
	return c.emailAuth(ctx, email, password, true)
}

func (c *Controller) emailAuth(ctx context.Context, email, password string, signUp bool) error {
	c.mu.Lock()
	if _, ok := c.screen.(EmailAuth); !ok {
		c.mu.Unlock()
		return errors.New("flow: not on the email-auth screen")
	}
	c.mu.Unlock()

	var id *session.Identity
	var err error
	if signUp {
		id, err = c.authn.SignUp(ctx, email, password)
	} else {
		id, err = c.authn.SignInWithPassword(ctx, email, password)
	}
	if err != nil {
		c.notifier.Error("Sign-in failed: " + err.Error())
		return err
	}
	c.AuthSuccess(*id)
	return nil
}

// AuthSuccess adopts a freshly authenticated identity from the email-auth
// screen and moves on to reminder setup.
func (c *Controller) AuthSuccess(id session.Identity) {
	c.transition(func() bool {
		if _, ok := c.screen.(EmailAuth); !ok {
			return false
		}
		c.sess = session.FromIdentity(id)
		c.screen = ReminderSetup{}
		return true
	})
}

// ---- reminder setup ----

// SetReminder persists the reminder time into the profile and proceeds to
// home. Persistence failure keeps the old reminder value and still proceeds;
// the failure is surfaced but never blocks the flow.
func (c *Controller) SetReminder(ctx context.Context, hhmm string) {
	c.mu.Lock()
	if _, ok := c.screen.(ReminderSetup); !ok || c.sess == nil {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if !journal.ValidReminder(hhmm) {
		c.notifier.Error("Reminder time must look like 08:00")
		return
	}

	err := c.authn.UpdateProfile(ctx, map[string]string{"reminder_time": hhmm})

	c.mu.Lock()
	if _, ok := c.screen.(ReminderSetup); !ok {
		c.mu.Unlock()
		return
	}
	if err == nil && c.sess != nil {
		c.sess.ReminderTime = hhmm
	}
	c.screen = Home{}
	c.mu.Unlock()
	if err != nil {
		c.notifier.Error("Could not save the reminder: " + err.Error())
	}
	c.notifyChanged()
}

// SkipReminder moves reminder-setup → home without touching the profile.
func (c *Controller) SkipReminder() {
	c.transition(func() bool {
		if _, ok := c.screen.(ReminderSetup); !ok {
			return false
		}
		c.screen = Home{}
		return true
	})
}

// ---- authenticated subtree ----

// WriteToday opens the editor for today's page.
func (c *Controller) WriteToday() {
	c.transition(func() bool {
		if _, ok := c.screen.(Home); !ok {
			return false
		}
		c.screen = Editor{}
		return true
	})
}

// ViewEntry opens the read-only page for a past date.
func (c *Controller) ViewEntry(date string) {
	if !journal.ValidDate(date) {
		return
	}
	c.transition(func() bool {
		if _, ok := c.screen.(Home); !ok {
			return false
		}
		c.screen = PastEntry{Date: date}
		return true
	})
}

// OpenSettings moves home → settings.
func (c *Controller) OpenSettings() {
	c.transition(func() bool {
		if _, ok := c.screen.(Home); !ok {
			return false
		}
		c.screen = Settings{}
		return true
	})
}

// OpenAccount moves settings → account.
func (c *Controller) OpenAccount() {
	c.transition(func() bool {
		if _, ok := c.screen.(Settings); !ok {
			return false
		}
		c.screen = Account{}
		return true
	})
}

// BackHome returns to home from the editor, a past entry, or settings.
func (c *Controller) BackHome() {
	c.transition(func() bool {
		switch c.screen.(type) {
		case Editor, PastEntry, Settings:
			c.screen = Home{}
			return true
		}
		return false
	})
}

// BackToSettings returns account → settings.
func (c *Controller) BackToSettings() {
	c.transition(func() bool {
		if _, ok := c.screen.(Account); !ok {
			return false
		}
		c.screen = Settings{}
		return true
	})
}

// Logout signs out from home or account. The session clears and the screen
// lands on welcome even when the sign-out call fails; local state must never
// disagree with the visible screen.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	switch c.screen.(type) {
	case Home, Account:
	default:
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if err := c.authn.SignOut(ctx); err != nil {
		c.notifier.Error("Sign-out reported an error: " + err.Error())
	}

	c.mu.Lock()
	c.sess = nil
	c.screen = Welcome{}
	c.mu.Unlock()
	c.notifyChanged()
}

// SaveEntry saves the editor's page. Success bumps the refresh counter and
// returns to home; failure surfaces and stays on the editor so the user can
// retry.
func (c *Controller) SaveEntry(ctx context.Context, content string) error {
	c.mu.Lock()
	ed, ok := c.screen.(Editor)
	if !ok || c.sess == nil {
		c.mu.Unlock()
		return errors.New("flow: not editing")
	}
	userID := c.sess.UserID
	date := ed.Date
	c.mu.Unlock()

	if date == "" {
		date = journal.Today()
	}

	if err := c.gateway.Save(ctx, userID, date, content); err != nil {
		c.notifier.Error("Could not save your morning pages.")
		return err
	}

	c.mu.Lock()
	if cur, still := c.screen.(Editor); still && cur == ed {
		c.refresh++
		c.screen = Home{}
	}
	c.mu.Unlock()
	c.notifier.Success("Morning pages saved.")
	c.notifyChanged()
	return nil
}

// LoadEntry fetches the page for a date. Absent entries and load failures
// both read as an empty page; navigation never blocks on a load error.
func (c *Controller) LoadEntry(ctx context.Context, date string) string {
	c.mu.Lock()
	if c.sess == nil {
		c.mu.Unlock()
		return ""
	}
	userID := c.sess.UserID
	c.mu.Unlock()

	if date == "" {
		date = journal.Today()
	}
	content, err := c.gateway.Load(ctx, userID, date)
	if err != nil {
		return ""
	}
	return content
}

// ListEntries fetches the user's entries for the home screen, newest first.
// Failures read as an empty list.
func (c *Controller) ListEntries(ctx context.Context) []journal.Entry {
	c.mu.Lock()
	if c.sess == nil {
		c.mu.Unlock()
		return nil
	}
	userID := c.sess.UserID
	c.mu.Unlock()

	entries, err := c.gateway.List(ctx, userID)
	if err != nil {
		return nil
	}
	return entries
}

// transition runs a guarded state change under the lock and signals when it
// applied.
func (c *Controller) transition(apply func() bool) {
	c.mu.Lock()
	applied := apply()
	c.mu.Unlock()
	if applied {
		c.notifyChanged()
	}
}
