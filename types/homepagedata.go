package types

import (
	errs "errors"
)

type HomePageData struct {
	Config  Config
	Today   Day
	Days    int
	Current MoodEntry
	Err     error
}

func (d HomePageData) WithDays(days int) HomePageData {
	d.Days = days
	return d
}

func (d HomePageData) WithError(err error) HomePageData {
	d.Err = errs.Join(d.Err, err)
	return d
}

// WithCurrent preloads the dashboard inputs with today's stored entry.
func (d HomePageData) WithCurrent(e MoodEntry) HomePageData {
	d.Current = e
	return d
}
