package write

import (
	"context"
	"errors"

	"tableflip.dev/pages/pkg/journal"
	"tableflip.dev/pages/pkg/notify"
)

// Write saves one page for the given user and date.
type Write struct {
	Gateway  *journal.Gateway
	Notifier notify.Notifier
	UserID   string
	Date     string
	Content  string
}

func (w *Write) Do(ctx context.Context) error {
	if w.Gateway == nil {
		return errors.New("can not write, no storage")
	}
	date := w.Date
	if date == "" {
		date = journal.Today()
	}
	if err := w.Gateway.Save(ctx, w.UserID, date, w.Content); err != nil {
		if w.Notifier != nil {
			w.Notifier.Error("Could not save your morning pages.")
		}
		return err
	}
	if w.Notifier != nil {
		w.Notifier.Success("Morning pages saved for " + date + ".")
	}
	return nil
}
