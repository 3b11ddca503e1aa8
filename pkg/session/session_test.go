package session

import "testing"

func TestFromIdentity(t *testing.T) {
	s := FromIdentity(Identity{ID: "u1", Email: "a@b.com", Name: "  Ada  ", ReminderTime: "07:30"})
	if s.UserID != "u1" || s.Email != "a@b.com" {
		t.Fatalf("session = %+v", s)
	}
	if s.DisplayName != "Ada" {
		t.Fatalf("display name = %q, want trimmed", s.DisplayName)
	}
	if s.ReminderTime != "07:30" {
		t.Fatalf("reminder = %q", s.ReminderTime)
	}
}

func TestFromIdentityMissingNameStaysEmpty(t *testing.T) {
	s := FromIdentity(Identity{ID: "u1", Email: "a@b.com", Name: "   "})
	if s.DisplayName != "" {
		t.Fatalf("display name = %q, want empty", s.DisplayName)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	var nilSession *Session
	if nilSession.Clone() != nil {
		t.Fatal("nil clone must stay nil")
	}

	orig := &Session{UserID: "u1", ReminderTime: "07:30"}
	cp := orig.Clone()
	cp.ReminderTime = "09:00"
	if orig.ReminderTime != "07:30" {
		t.Fatal("clone must not share state")
	}
}
