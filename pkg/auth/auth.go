// Package auth provides the authentication collaborator: current-session
// lookup, a session-change subscription, and the sign-in/sign-out calls the
// screen flow invokes. The concrete client speaks the backend's gotrue-style
// REST surface; the flow controller only sees this interface.
package auth

import (
	"context"
	"sync"

	"tableflip.dev/pages/pkg/session"
)

// Event is one session-change notification. A nil Identity means the
// principal signed out (or the session was invalidated).
type Event struct {
	Identity *session.Identity
}

// Authenticated reports whether the event carries a principal.
func (e Event) Authenticated() bool { return e.Identity != nil }

// Subscription is a live session-change registration. Callers drain C and
// must release the registration with Unsubscribe exactly once; Unsubscribe is
// safe to call more than once but only the first call does the work.
type Subscription struct {
	C      <-chan Event
	once   sync.Once
	cancel func()
}

// Unsubscribe releases the registration. C stops receiving afterwards.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Authenticator is the auth collaborator contract.
type Authenticator interface {
	// GetCurrentSession returns the existing authenticated principal, or nil
	// when there is none. One shot; callers treat errors as "no session".
	GetCurrentSession(ctx context.Context) (*session.Identity, error)

	// Subscribe registers for session-change events. Events fire for fresh
	// sign-ins, profile updates, token refreshes, and sign-outs.
	Subscribe(ctx context.Context) (*Subscription, error)

	// SignInWithOAuth starts the provider flow and returns the authorize URL
	// the user must visit. The eventual session-change event completes the
	// flow; this call itself never authenticates.
	SignInWithOAuth(ctx context.Context, provider string) (string, error)

	SignInWithPassword(ctx context.Context, email, password string) (*session.Identity, error)
	SignUp(ctx context.Context, email, password string) (*session.Identity, error)

	// UpdateProfile merges fields into the principal's metadata.
	UpdateProfile(ctx context.Context, fields map[string]string) error

	SignOut(ctx context.Context) error
}
