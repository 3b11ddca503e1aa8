// Package session holds the in-memory representation of the authenticated
// principal. A Session exists only while the backend reports one; nothing in
// this package fabricates sessions on its own.
package session

import "strings"

// Session is the client-side view of the signed-in user.
type Session struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`

	// ReminderTime is an HH:MM 24-hour string, empty until the user sets one.
	ReminderTime string `json:"reminder_time,omitempty"`
}

// Identity is the principal shape reported by the auth backend.
type Identity struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	ReminderTime string `json:"reminder_time,omitempty"`
}

// FromIdentity maps a backend principal onto a Session. A missing display
// name maps to the empty string rather than a placeholder.
func FromIdentity(id Identity) *Session {
	return &Session{
		UserID:       id.ID,
		Email:        id.Email,
		DisplayName:  strings.TrimSpace(id.Name),
		ReminderTime: id.ReminderTime,
	}
}

// Clone returns a copy so callers can hand out snapshots without sharing the
// controller's instance.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}
