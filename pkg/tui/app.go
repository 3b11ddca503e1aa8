// Package tui is the full-screen journaling interface: one Bubble Tea model
// whose visible screen mirrors the flow controller's navigation state.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textarea"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/pages/pkg/auth"
	"tableflip.dev/pages/pkg/flow"
	"tableflip.dev/pages/pkg/journal"
	"tableflip.dev/pages/pkg/notify"
)

// entry item for the home list
type entryItem struct{ e journal.Entry }

func (it entryItem) Title() string       { return it.e.Date }
func (it entryItem) Description() string { return "" }
func (it entryItem) FilterValue() string { return it.e.Date }

// authField tracks which input the email-auth screen is editing.
type authField int

const (
	fieldEmail authField = iota
	fieldPassword
)

// Model contains UI state. The controller owns the navigation state; the
// model only holds widgets and the latest snapshot it rendered.
type Model struct {
	ctrl   *flow.Controller
	status *notify.Latest
	ctx    context.Context

	snap flow.Snapshot

	entries    list.Model
	emailInput textinput.Model
	passInput  textinput.Model
	timeInput  textinput.Model
	editor     textarea.Model

	pastContent string
	oauthURL    string
	statusLine  string
	statusFail  bool
	signUpMode  bool
	field       authField

	termWidth  int
	termHeight int
}

// New creates the UI model around a controller and its status notifier.
func New(ctrl *flow.Controller, status *notify.Latest) Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	entries := list.New([]list.Item{}, delegate, 40, 16)
	entries.Title = "Past pages"
	entries.SetShowHelp(false)
	entries.SetShowStatusBar(false)

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 128
	email.Prompt = ""

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.Prompt = ""
	pass.EchoMode = textinput.EchoPassword

	timeIn := textinput.New()
	timeIn.Placeholder = "08:00"
	timeIn.CharLimit = 5
	timeIn.Prompt = ""

	editor := textarea.New()
	editor.Placeholder = "Write your morning pages..."

	m := Model{
		ctrl:       ctrl,
		status:     status,
		ctx:        context.Background(),
		entries:    entries,
		emailInput: email,
		passInput:  pass,
		timeInput:  timeIn,
		editor:     editor,
	}
	m.snap = ctrl.State()
	return m
}

// messages
type stateChangedMsg struct{}
type initializedMsg struct{}
type entriesLoadedMsg struct{ items []list.Item }
type entryLoadedMsg struct {
	date    string
	content string
}
type oauthURLMsg struct{ url string }
type authDoneMsg struct{ err error }
type saveDoneMsg struct{ err error }
type reminderDoneMsg struct{}

// Init kicks the session bootstrap and starts draining controller changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initialize(), m.waitForChange())
}

func (m *Model) initialize() tea.Cmd {
	ctrl := m.ctrl
	ctx := m.ctx
	return func() tea.Msg {
		ctrl.Initialize(ctx)
		return initializedMsg{}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	ch := m.ctrl.Changed()
	return func() tea.Msg {
		<-ch
		return stateChangedMsg{}
	}
}

func (m *Model) loadEntries() tea.Cmd {
	ctrl := m.ctrl
	ctx := m.ctx
	return func() tea.Msg {
		entries := ctrl.ListEntries(ctx)
		items := make([]list.Item, 0, len(entries))
		for _, e := range entries {
			items = append(items, entryItem{e: e})
		}
		return entriesLoadedMsg{items}
	}
}

func (m *Model) loadEntry(date string) tea.Cmd {
	ctrl := m.ctrl
	ctx := m.ctx
	return func() tea.Msg {
		return entryLoadedMsg{date: date, content: ctrl.LoadEntry(ctx, date)}
	}
}

// Update handles messages and keybindings.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()

	case initializedMsg:
		m.refreshSnapshot(&cmds)

	case stateChangedMsg:
		m.refreshSnapshot(&cmds)
		cmds = append(cmds, m.waitForChange())

	case entriesLoadedMsg:
		m.entries.SetItems(msg.items)
		if len(msg.items) > 0 && m.entries.Index() < 0 {
			m.entries.Select(0)
		}

	case entryLoadedMsg:
		switch m.snap.Screen.(type) {
		case flow.Editor:
			m.editor.SetValue(msg.content)
		case flow.PastEntry:
			m.pastContent = msg.content
		}

	case oauthURLMsg:
		m.oauthURL = msg.url
		m.statusLine = "Waiting for the browser sign-in to finish..."
		m.statusFail = false

	case authDoneMsg, saveDoneMsg, reminderDoneMsg:
		m.refreshSnapshot(&cmds)

	case tea.KeyPressMsg:
		cmds = append(cmds, m.handleKey(msg)...)
	}

	// Route remaining messages to the focused widget for the current screen.
	switch m.snap.Screen.(type) {
	case flow.Home:
		if _, isKey := msg.(tea.KeyPressMsg); !isKey {
			var cmd tea.Cmd
			m.entries, cmd = m.entries.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// refreshSnapshot re-reads controller state and pulls pending notifications
// into the status line. Screen-entry side effects (data loads, input focus)
// happen here so forced transitions behave like user-driven ones.
func (m *Model) refreshSnapshot(cmds *[]tea.Cmd) {
	prev := m.snap
	m.snap = m.ctrl.State()

	if msg, fail, ok := m.status.Take(); ok {
		m.statusLine = msg
		m.statusFail = fail
	}

	if prev.Screen == m.snap.Screen && prev.Refresh == m.snap.Refresh {
		return
	}

	switch s := m.snap.Screen.(type) {
	case flow.Home:
		m.oauthURL = ""
		*cmds = append(*cmds, m.loadEntries())
	case flow.EmailAuth:
		m.field = fieldEmail
		m.emailInput.Reset()
		m.passInput.Reset()
		if cmd := m.emailInput.Focus(); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		*cmds = append(*cmds, textinput.Blink)
	case flow.ReminderSetup:
		m.timeInput.Reset()
		if cmd := m.timeInput.Focus(); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		*cmds = append(*cmds, textinput.Blink)
	case flow.Editor:
		m.editor.Reset()
		if cmd := m.editor.Focus(); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		*cmds = append(*cmds, m.loadEntry(s.Date))
	case flow.PastEntry:
		m.pastContent = ""
		*cmds = append(*cmds, m.loadEntry(s.Date))
	}
}

func (m *Model) handleKey(msg tea.KeyPressMsg) []tea.Cmd {
	var cmds []tea.Cmd
	key := msg.String()

	switch m.snap.Screen.(type) {
	case flow.Welcome:
		switch key {
		case "enter":
			m.ctrl.GetStarted()
		case "q", "ctrl+c":
			cmds = append(cmds, tea.Quit)
		}

	case flow.Login:
		switch key {
		case "g":
			cmds = append(cmds, m.oauthLogin("google"))
		case "a":
			cmds = append(cmds, m.oauthLogin("apple"))
		case "k":
			cmds = append(cmds, m.oauthLogin("kakao"))
		case "e":
			m.ctrl.ChooseEmailAuth()
		case "q", "ctrl+c":
			cmds = append(cmds, tea.Quit)
		}

	case flow.EmailAuth:
		switch key {
		case "esc":
			m.ctrl.BackToLogin()
		case "tab", "shift+tab":
			m.toggleAuthField(&cmds)
		case "ctrl+u":
			m.signUpMode = !m.signUpMode
		case "enter":
			if m.field == fieldEmail {
				m.toggleAuthField(&cmds)
			} else {
				cmds = append(cmds, m.submitEmailAuth())
			}
		case "ctrl+c":
			cmds = append(cmds, tea.Quit)
		default:
			cmds = append(cmds, m.updateAuthInput(msg))
		}

	case flow.ReminderSetup:
		switch key {
		case "s", "esc":
			m.ctrl.SkipReminder()
		case "enter":
			cmds = append(cmds, m.submitReminder())
		case "ctrl+c":
			cmds = append(cmds, tea.Quit)
		default:
			var cmd tea.Cmd
			m.timeInput, cmd = m.timeInput.Update(msg)
			cmds = append(cmds, cmd)
		}

	case flow.Home:
		switch key {
		case "w":
			m.ctrl.WriteToday()
		case "enter":
			if it, ok := m.entries.SelectedItem().(entryItem); ok {
				m.ctrl.ViewEntry(it.e.Date)
			}
		case "s":
			m.ctrl.OpenSettings()
		case "ctrl+l":
			cmds = append(cmds, m.logout())
		case "r":
			cmds = append(cmds, m.loadEntries())
		case "q", "ctrl+c":
			cmds = append(cmds, tea.Quit)
		default:
			var cmd tea.Cmd
			m.entries, cmd = m.entries.Update(msg)
			cmds = append(cmds, cmd)
		}

	case flow.Editor:
		switch key {
		case "esc":
			m.ctrl.BackHome()
		case "ctrl+s":
			cmds = append(cmds, m.saveEntry())
		case "ctrl+c":
			cmds = append(cmds, tea.Quit)
		default:
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			cmds = append(cmds, cmd)
		}

	case flow.PastEntry:
		switch key {
		case "esc", "enter":
			m.ctrl.BackHome()
		case "ctrl+c":
			cmds = append(cmds, tea.Quit)
		}

	case flow.Settings:
		switch key {
		case "a":
			m.ctrl.OpenAccount()
		case "esc":
			m.ctrl.BackHome()
		case "ctrl+c":
			cmds = append(cmds, tea.Quit)
		}

	case flow.Account:
		switch key {
		case "l":
			cmds = append(cmds, m.logout())
		case "esc":
			m.ctrl.BackToSettings()
		case "ctrl+c":
			cmds = append(cmds, tea.Quit)
		}
	}

	return cmds
}

func (m *Model) toggleAuthField(cmds *[]tea.Cmd) {
	if m.field == fieldEmail {
		m.field = fieldPassword
		m.emailInput.Blur()
		if cmd := m.passInput.Focus(); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
	} else {
		m.field = fieldEmail
		m.passInput.Blur()
		if cmd := m.emailInput.Focus(); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
	}
}

func (m *Model) updateAuthInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.field == fieldEmail {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passInput, cmd = m.passInput.Update(msg)
	}
	return cmd
}

func (m *Model) oauthLogin(provider string) tea.Cmd {
	ctrl := m.ctrl
	ctx := m.ctx
	return func() tea.Msg {
		url, err := ctrl.OAuthLogin(ctx, provider)
		if err != nil {
			return authDoneMsg{err: err}
		}
		return oauthURLMsg{url: url}
	}
}

func (m *Model) submitEmailAuth() tea.Cmd {
	ctrl := m.ctrl
	ctx := m.ctx
	email := m.emailInput.Value()
	password := m.passInput.Value()
	signUp := m.signUpMode
	return func() tea.Msg {
		var err error
		if signUp {
			err = ctrl.EmailSignUp(ctx, email, password)
		} else {
			err = ctrl.EmailSignIn(ctx, email, password)
		}
		return authDoneMsg{err: err}
	}
}

func (m *Model) submitReminder() tea.Cmd {
	ctrl := m.ctrl
	ctx := m.ctx
	hhmm := m.timeInput.Value()
	return func() tea.Msg {
		ctrl.SetReminder(ctx, hhmm)
		return reminderDoneMsg{}
	}
}

func (m *Model) saveEntry() tea.Cmd {
	ctrl := m.ctrl
	ctx := m.ctx
	content := m.editor.Value()
	return func() tea.Msg {
		return saveDoneMsg{err: ctrl.SaveEntry(ctx, content)}
	}
}

func (m *Model) logout() tea.Cmd {
	ctrl := m.ctrl
	ctx := m.ctx
	return func() tea.Msg {
		ctrl.Logout(ctx)
		return authDoneMsg{}
	}
}

// applySizes recalculates widget sizes from the terminal size.
func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	width := m.termWidth - 4
	if width < 20 {
		width = 20
	}
	height := m.termHeight - 8
	if height < 5 {
		height = 5
	}
	m.entries.SetSize(width, height)
	m.editor.SetWidth(width)
	m.editor.SetHeight(height)
}

// Run launches the UI for a signed-in-or-not client.
func Run(client *auth.Client, gateway *journal.Gateway) error {
	status := &notify.Latest{}
	ctrl := flow.New(client, gateway, status)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	defer ctrl.Close()

	p := tea.NewProgram(New(ctrl, status), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
