package main

import (
	"github.com/labstack/echo/v4"
	"github.com/oliverisaac/moodsignage/lib/moodstore"
	"github.com/oliverisaac/moodsignage/types"
	"github.com/oliverisaac/moodsignage/views"
	"github.com/sirupsen/logrus"
)

func homePageHandler(cfg types.Config, store *moodstore.Store, now clock) echo.HandlerFunc {
	return func(c echo.Context) error {
		today := types.Today(now())
		pageData := types.HomePageData{Config: cfg, Today: today, Days: cfg.DefaultDays}

		if days, ok := sessionDays(c); ok {
			logrus.Debugf("Using remembered window of %d days", days)
			pageData = pageData.WithDays(days)
		}

		current := types.EntryPayload{}.Entry(today)
		entries, err := store.QueryRange(c.Request().Context(), today, today)
		if err != nil {
			logrus.Error(err)
			pageData = pageData.WithError(err)
		} else if len(entries) > 0 {
			current = entries[0]
		}

		return render(c, 200, views.Index(pageData.WithCurrent(current)))
	}
}
