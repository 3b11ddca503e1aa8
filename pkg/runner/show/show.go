package show

import (
	"context"
	"errors"

	"tableflip.dev/pages/pkg/journal"
	"tableflip.dev/pages/pkg/printers"
)

// Show prints the page for one date.
type Show struct {
	Gateway *journal.Gateway
	UserID  string
	Date    string
}

func (s *Show) Do(ctx context.Context) error {
	if s.Gateway == nil {
		return errors.New("can not show, no storage")
	}
	date := s.Date
	if date == "" {
		date = journal.Today()
	}

	pp := printers.PrettyPrint{}
	pp.NewLine()

	content, err := s.Gateway.Load(ctx, s.UserID, date)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			pp.Empty(date)
			return nil
		}
		return err
	}
	pp.Page(journal.Entry{UserID: s.UserID, Date: date, Content: content})
	return nil
}
