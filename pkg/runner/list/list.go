package list

import (
	"context"
	"errors"

	"tableflip.dev/pages/pkg/journal"
	"tableflip.dev/pages/pkg/printers"
)

// List prints every page the user has written, newest first.
type List struct {
	Gateway *journal.Gateway
	UserID  string
}

func (l *List) Do(ctx context.Context) error {
	if l.Gateway == nil {
		return errors.New("can not list, no storage")
	}
	entries, err := l.Gateway.List(ctx, l.UserID)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{}
	pp.NewLine()
	pp.Title("Morning pages")
	pp.Entries(entries)
	return nil
}
