package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/v2/list"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/pages/pkg/auth"
	"tableflip.dev/pages/pkg/flow"
	"tableflip.dev/pages/pkg/journal"
	"tableflip.dev/pages/pkg/notify"
	"tableflip.dev/pages/pkg/session"
	"tableflip.dev/pages/pkg/store"
)

type fakeAuth struct {
	current *session.Identity
	events  chan auth.Event
}

func (f *fakeAuth) GetCurrentSession(ctx context.Context) (*session.Identity, error) {
	return f.current, nil
}

func (f *fakeAuth) Subscribe(ctx context.Context) (*auth.Subscription, error) {
	if f.events == nil {
		f.events = make(chan auth.Event, 4)
	}
	return &auth.Subscription{C: f.events}, nil
}

func (f *fakeAuth) SignInWithOAuth(ctx context.Context, provider string) (string, error) {
	return "https://auth.example/authorize?provider=" + provider, nil
}

func (f *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*session.Identity, error) {
	return &session.Identity{ID: "u1", Email: email}, nil
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password string) (*session.Identity, error) {
	return &session.Identity{ID: "u1", Email: email}, nil
}

func (f *fakeAuth) UpdateProfile(ctx context.Context, fields map[string]string) error { return nil }
func (f *fakeAuth) SignOut(ctx context.Context) error                                 { return nil }

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

func newTestModel(t *testing.T, a *fakeAuth) (Model, *flow.Controller) {
	t.Helper()
	status := &notify.Latest{}
	ctrl := flow.New(a, &journal.Gateway{Storage: &memStorage{}}, status)
	m := New(ctrl, status)
	m.termWidth = 80
	m.termHeight = 24
	m.applySizes()
	return m, ctrl
}

// press feeds one key and re-reads the controller state, the way a
// stateChangedMsg would after the real event loop turns.
func press(t *testing.T, m Model, key tea.KeyPressMsg) Model {
	t.Helper()
	next, _ := m.Update(key)
	nm := next.(Model)
	var cmds []tea.Cmd
	nm.refreshSnapshot(&cmds)
	return nm
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Text: string(r), Code: r}
}

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func TestKeyboardPathWelcomeToEmailAuth(t *testing.T) {
	m, ctrl := newTestModel(t, &fakeAuth{})

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := ctrl.State().Screen.Name(); got != "login" {
		t.Fatalf("screen = %q, want login", got)
	}

	m = press(t, m, keyRune('e'))
	if got := ctrl.State().Screen.Name(); got != "email-auth" {
		t.Fatalf("screen = %q, want email-auth", got)
	}

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if got := ctrl.State().Screen.Name(); got != "login" {
		t.Fatalf("screen = %q, want login after esc", got)
	}
}

func TestHomeKeysOpenEditorAndSettings(t *testing.T) {
	a := &fakeAuth{current: &session.Identity{ID: "u1", Email: "a@b.com", Name: "Ada"}}
	m, ctrl := newTestModel(t, a)
	ctrl.Initialize(context.Background())
	var cmds []tea.Cmd
	m.refreshSnapshot(&cmds)

	m = press(t, m, keyRune('w'))
	if got := ctrl.State().Screen.Name(); got != "editor" {
		t.Fatalf("screen = %q, want editor", got)
	}

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	m = press(t, m, keyRune('s'))
	if got := ctrl.State().Screen.Name(); got != "settings" {
		t.Fatalf("screen = %q, want settings", got)
	}

	m = press(t, m, keyRune('a'))
	if got := ctrl.State().Screen.Name(); got != "account" {
		t.Fatalf("screen = %q, want account", got)
	}
}

func TestViewWelcome(t *testing.T) {
	m, _ := newTestModel(t, &fakeAuth{})

	out := stripANSI(m.View())
	if !strings.Contains(out, "morning pages") {
		t.Fatalf("welcome view missing title:\n%s", out)
	}
	if !strings.Contains(out, "[welcome]") {
		t.Fatalf("status line missing screen name:\n%s", out)
	}
}

func TestViewLoginShowsAuthorizeURL(t *testing.T) {
	m, ctrl := newTestModel(t, &fakeAuth{})
	ctrl.GetStarted()
	var cmds []tea.Cmd
	m.refreshSnapshot(&cmds)
	m.oauthURL = "https://auth.example/authorize?provider=google"

	out := stripANSI(m.View())
	if !strings.Contains(out, "continue with Google") {
		t.Fatalf("login view missing provider row:\n%s", out)
	}
	if !strings.Contains(out, "https://auth.example/authorize?provider=google") {
		t.Fatalf("login view missing authorize url:\n%s", out)
	}
}

func TestViewEmailAuthSignUpToggle(t *testing.T) {
	m, ctrl := newTestModel(t, &fakeAuth{})
	ctrl.GetStarted()
	ctrl.ChooseEmailAuth()
	var cmds []tea.Cmd
	m.refreshSnapshot(&cmds)

	if out := stripANSI(m.View()); !strings.Contains(out, "Sign in with email") {
		t.Fatalf("expected sign-in mode:\n%s", out)
	}

	next, _ := m.Update(tea.KeyPressMsg{Code: 'u', Mod: tea.ModCtrl})
	m = next.(Model)
	if out := stripANSI(m.View()); !strings.Contains(out, "Create account with email") {
		t.Fatalf("expected sign-up mode:\n%s", out)
	}
}

func TestViewHomeGreetsByName(t *testing.T) {
	a := &fakeAuth{current: &session.Identity{ID: "u1", Email: "a@b.com", Name: "Ada"}}
	m, ctrl := newTestModel(t, a)
	ctrl.Initialize(context.Background())
	var cmds []tea.Cmd
	m.refreshSnapshot(&cmds)

	out := stripANSI(m.View())
	if !strings.Contains(out, "Welcome back, Ada.") {
		t.Fatalf("home view missing greeting:\n%s", out)
	}
}

func TestViewPastEntryFallsBackWhenEmpty(t *testing.T) {
	a := &fakeAuth{current: &session.Identity{ID: "u1"}}
	m, ctrl := newTestModel(t, a)
	ctrl.Initialize(context.Background())
	ctrl.ViewEntry("2026-08-28")
	var cmds []tea.Cmd
	m.refreshSnapshot(&cmds)

	out := stripANSI(m.View())
	if !strings.Contains(out, "2026-08-28") {
		t.Fatalf("past view missing date:\n%s", out)
	}
	if !strings.Contains(out, "Nothing written this day.") {
		t.Fatalf("past view missing empty placeholder:\n%s", out)
	}
}

func TestViewStatusLineShowsFailures(t *testing.T) {
	m, _ := newTestModel(t, &fakeAuth{})
	m.statusLine = "Could not save your morning pages."
	m.statusFail = true

	out := stripANSI(m.View())
	if !strings.Contains(out, "Could not save your morning pages.") {
		t.Fatalf("status line missing message:\n%s", out)
	}
}

func TestEntriesLoadedPopulatesHomeList(t *testing.T) {
	a := &fakeAuth{current: &session.Identity{ID: "u1"}}
	m, ctrl := newTestModel(t, a)
	ctrl.Initialize(context.Background())
	var cmds []tea.Cmd
	m.refreshSnapshot(&cmds)

	next, _ := m.Update(entriesLoadedMsg{items: []list.Item{
		entryItem{e: journal.Entry{UserID: "u1", Date: "2026-08-28", Content: "pages"}},
	}})
	m = next.(Model)

	out := stripANSI(m.View())
	if !strings.Contains(out, "2026-08-28") {
		t.Fatalf("home view missing listed entry:\n%s", out)
	}
}
