package flow

// Screen is the closed set of navigation states. Variants that need a date
// carry their own, so "a selected date with no screen to show it" cannot be
// represented.
type Screen interface {
	Name() string
	screen()
}

type Welcome struct{}
type Login struct{}
type EmailAuth struct{}
type ReminderSetup struct{}
type Home struct{}

// Editor targets one day's page. An empty Date means today.
type Editor struct {
	Date string
}

// PastEntry shows a read-only page for a specific day.
type PastEntry struct {
	Date string
}

type Settings struct{}
type Account struct{}

func (Welcome) Name() string       { return "welcome" }
func (Login) Name() string         { return "login" }
func (EmailAuth) Name() string     { return "email-auth" }
func (ReminderSetup) Name() string { return "reminder-setup" }
func (Home) Name() string          { return "home" }
func (Editor) Name() string        { return "editor" }
func (PastEntry) Name() string     { return "past-entry" }
func (Settings) Name() string      { return "settings" }
func (Account) Name() string       { return "account" }

func (Welcome) screen()       {}
func (Login) screen()         {}
func (EmailAuth) screen()     {}
func (ReminderSetup) screen() {}
func (Home) screen()          {}
func (Editor) screen()        {}
func (PastEntry) screen()     {}
func (Settings) screen()      {}
func (Account) screen()       {}
