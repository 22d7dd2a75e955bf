package moodstore

import (
	"context"
	errs "errors"
	"fmt"

	"github.com/oliverisaac/moodsignage/types"
)

const DefaultDays = 14

var ErrInvalidDays = errs.New("days must be at least 1")

// Window is an inclusive range of calendar days.
type Window struct {
	Start types.Day
	End   types.Day
}

// NewWindow covers the `days` days that end on `end`.
func NewWindow(end types.Day, days int) (Window, error) {
	if days < 1 {
		return Window{}, fmt.Errorf("%w, got %d", ErrInvalidDays, days)
	}
	return Window{Start: end.AddDays(-(days - 1)), End: end}, nil
}

// Days lists every date in the window in order.
func (w Window) Days() []types.Day {
	var ret []types.Day
	for d := w.Start; !d.After(w.End); d = d.AddDays(1) {
		ret = append(ret, d)
	}
	return ret
}

func (w Window) String() string {
	return fmt.Sprintf("%s..%s", w.Start, w.End)
}

// RecentEntries returns the entries of the `days` days ending today.
func (s *Store) RecentEntries(ctx context.Context, today types.Day, days int) ([]types.MoodEntry, error) {
	w, err := NewWindow(today, days)
	if err != nil {
		return nil, err
	}
	return s.QueryRange(ctx, w.Start, w.End)
}
