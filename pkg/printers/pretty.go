// Package printers renders journal output for the terminal commands.
package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/pages/pkg/journal"
)

type PrettyPrint struct{}

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

// Page prints one entry's content under its date.
func (pp *PrettyPrint) Page(e journal.Entry) {
	pp.Title(e.Date)
	t := color.New()
	if strings.TrimSpace(e.Content) == "" {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" nothing written\n\n")
		return
	}
	_, _ = t.Printf("%s\n\n", e.Content)
}

// Empty prints the placeholder for a date with no entry yet.
func (pp *PrettyPrint) Empty(date string) {
	pp.Title(date)
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Print(" no entry for this date\n\n")
}

// Entries prints a date/preview table of all entries, newest first.
func (pp *PrettyPrint) Entries(entries []journal.Entry) {
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" no entries yet\n\n")
		return
	}
	table := uitable.New()
	table.MaxColWidth = 72
	table.AddRow("DATE", "PAGE")
	for _, e := range entries {
		table.AddRow(e.Date, preview(e.Content))
	}
	fmt.Println(table)
	fmt.Println("")
}

func preview(content string) string {
	line := content
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	runes := []rune(line)
	if len(runes) > 60 {
		return string(runes[:59]) + "…"
	}
	return line
}
