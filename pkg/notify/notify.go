// Package notify is the fire-and-forget notification collaborator: the flow
// controller reports outcomes here and never reads anything back.
package notify

import (
	"os"
	"sync"

	"github.com/fatih/color"
)

// Notifier receives user-visible outcome messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Console writes colored notifications to stderr, for headless commands.
type Console struct{}

func (Console) Success(msg string) {
	green := color.New(color.FgGreen)
	_, _ = green.Fprintf(os.Stderr, "✓ %s\n", msg)
}

func (Console) Error(msg string) {
	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprintf(os.Stderr, "✗ %s\n", msg)
}

// Discard ignores everything.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}

// Latest keeps only the most recent notification, for UIs with a single
// status line.
type Latest struct {
	mu   sync.Mutex
	msg  string
	fail bool
}

func (l *Latest) Success(msg string) { l.set(msg, false) }
func (l *Latest) Error(msg string)   { l.set(msg, true) }

func (l *Latest) set(msg string, fail bool) {
	l.mu.Lock()
	l.msg = msg
	l.fail = fail
	l.mu.Unlock()
}

// Take returns and clears the most recent message.
func (l *Latest) Take() (msg string, fail bool, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.msg == "" {
		return "", false, false
	}
	msg, fail = l.msg, l.fail
	l.msg = ""
	l.fail = false
	return msg, fail, true
}
