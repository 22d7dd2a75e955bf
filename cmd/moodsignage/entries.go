package main

import (
	errs "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/oliverisaac/moodsignage/lib/moodstore"
	"github.com/oliverisaac/moodsignage/lib/observability"
	"github.com/oliverisaac/moodsignage/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func getEntries(cfg types.Config, store *moodstore.Store, now clock) echo.HandlerFunc {
	return func(c echo.Context) error {
		days := cfg.DefaultDays
		explicit := false
		if raw := c.QueryParam("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				logrus.Debugf("Ignoring non-integer days %q", raw)
			} else {
				days = n
				explicit = true
			}
		}

		if days < 1 {
			logrus.Debugf("Window of %d days holds no entries", days)
			return c.JSON(http.StatusOK, []types.MoodEntry{})
		}
		if days > cfg.MaxDays {
			logrus.Debugf("Clamping days %d to %d", days, cfg.MaxDays)
			days = cfg.MaxDays
		}
		if explicit {
			rememberDays(c, days)
		}

		entries, err := store.RecentEntries(c.Request().Context(), types.Today(now()), days)
		if err != nil {
			return errors.Wrap(err, "loading recent entries")
		}
		observability.RecordWindow(days)

		return c.JSON(http.StatusOK, entries)
	}
}

func saveToday(store *moodstore.Store, now clock) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "could not read request body").SetInternal(err)
		}

		payload, err := types.ParseEntryPayload(body)
		if err != nil {
			return payloadError(err)
		}

		today := types.Today(now())
		entry := payload.Entry(today)
		if err := c.Validate(entry); err != nil {
			return payloadError(err)
		}

		if err := store.Upsert(c.Request().Context(), entry); err != nil {
			return errors.Wrap(err, "saving today's entry")
		}
		observability.RecordEntriesWritten(observability.SourceAPI, 1, now())
		logrus.Infof("Saved entry for %s", today)

		return c.JSON(http.StatusOK, types.SaveResponse{Success: true, Date: today.String()})
	}
}

// payloadError maps entry parsing and validation failures to 400s.
func payloadError(err error) error {
	var verr *types.ValidationError
	if errs.Is(err, types.ErrMalformedPayload) || errs.As(err, &verr) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return err
}
