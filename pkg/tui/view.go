package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/pages/pkg/flow"
	"tableflip.dev/pages/pkg/journal"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2)
	promptStyle = lipgloss.NewStyle().Bold(true)
)

// View renders the current screen plus the status line.
func (m Model) View() string {
	var body string

	switch s := m.snap.Screen.(type) {
	case flow.Welcome:
		body = m.viewWelcome()
	case flow.Login:
		body = m.viewLogin()
	case flow.EmailAuth:
		body = m.viewEmailAuth()
	case flow.ReminderSetup:
		body = m.viewReminderSetup()
	case flow.Home:
		body = m.viewHome()
	case flow.Editor:
		body = m.viewEditor(s)
	case flow.PastEntry:
		body = m.viewPastEntry(s)
	case flow.Settings:
		body = m.viewSettings()
	case flow.Account:
		body = m.viewAccount()
	}

	return body + "\n\n" + m.viewStatus()
}

func (m Model) viewStatus() string {
	if m.statusLine == "" {
		return faintStyle.Render(fmt.Sprintf("[%s]", m.snap.Screen.Name()))
	}
	style := okStyle
	if m.statusFail {
		style = errorStyle
	}
	return style.Render(fmt.Sprintf("[%s] %s", m.snap.Screen.Name(), m.statusLine))
}

func (m Model) viewWelcome() string {
	lines := []string{
		titleStyle.Render("morning pages"),
		"",
		"A quiet place for three pages before the day starts.",
		"",
		helpStyle.Render("enter get started · q quit"),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewLogin() string {
	lines := []string{
		titleStyle.Render("Sign in"),
		"",
		"g  continue with Google",
		"a  continue with Apple",
		"k  continue with Kakao",
		"e  continue with email",
	}
	if m.oauthURL != "" {
		lines = append(lines, "", promptStyle.Render("Open this URL to continue:"), m.oauthURL)
	}
	lines = append(lines, "", helpStyle.Render("q quit"))
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewEmailAuth() string {
	mode := "Sign in"
	if m.signUpMode {
		mode = "Create account"
	}
	lines := []string{
		titleStyle.Render(mode + " with email"),
		"",
		promptStyle.Render("Email"),
		m.emailInput.View(),
		"",
		promptStyle.Render("Password"),
		m.passInput.View(),
		"",
		helpStyle.Render("tab switch field · enter submit · ctrl+u toggle sign-up · esc back"),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewReminderSetup() string {
	lines := []string{
		titleStyle.Render("Daily reminder"),
		"",
		"When should we nudge you to write?",
		"",
		m.timeInput.View(),
		"",
		helpStyle.Render("enter set · s skip"),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewHome() string {
	greeting := "Welcome back."
	if m.snap.Session != nil && m.snap.Session.DisplayName != "" {
		greeting = fmt.Sprintf("Welcome back, %s.", m.snap.Session.DisplayName)
	}
	header := titleStyle.Render("Today") + "  " + faintStyle.Render(journal.Today())
	help := helpStyle.Render("w write today · enter view entry · s settings · ctrl+l log out · q quit")
	return header + "\n" + greeting + "\n\n" + m.entries.View() + "\n" + help
}

func (m Model) viewEditor(s flow.Editor) string {
	date := s.Date
	if date == "" {
		date = journal.Today()
	}
	header := titleStyle.Render("Morning pages") + "  " + faintStyle.Render(date)
	help := helpStyle.Render("ctrl+s save · esc back")
	return header + "\n\n" + m.editor.View() + "\n" + help
}

func (m Model) viewPastEntry(s flow.PastEntry) string {
	header := titleStyle.Render("Pages from") + "  " + faintStyle.Render(s.Date)
	content := m.pastContent
	if strings.TrimSpace(content) == "" {
		content = faintStyle.Render("Nothing written this day.")
	}
	help := helpStyle.Render("esc back")
	return header + "\n\n" + content + "\n\n" + help
}

func (m Model) viewSettings() string {
	reminder := "not set"
	if m.snap.Session != nil && m.snap.Session.ReminderTime != "" {
		reminder = m.snap.Session.ReminderTime
	}
	lines := []string{
		titleStyle.Render("Settings"),
		"",
		"Daily reminder: " + reminder,
		"",
		"a  account",
		"",
		helpStyle.Render("esc back"),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewAccount() string {
	email := ""
	if m.snap.Session != nil {
		email = m.snap.Session.Email
	}
	lines := []string{
		titleStyle.Render("Account"),
		"",
		"Signed in as " + email,
		"",
		"l  log out",
		"",
		helpStyle.Render("esc back"),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}
