package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oliverisaac/moodsignage/lib/moodstore"
	"github.com/oliverisaac/moodsignage/lib/observability"
	"github.com/oliverisaac/moodsignage/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func exportEntries(store *moodstore.Store, now clock) echo.HandlerFunc {
	return func(c echo.Context) error {
		entries, err := store.All(c.Request().Context())
		if err != nil {
			return errors.Wrap(err, "exporting entries")
		}

		filename := fmt.Sprintf("mood-data-%s.json", types.Today(now()).Compact())
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		return c.JSONPretty(http.StatusOK, types.NewExport(entries), "  ")
	}
}

func importEntries(store *moodstore.Store, now clock) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "could not read request body").SetInternal(err)
		}

		entries, skipped, err := types.ParseImport(body)
		if err != nil {
			return payloadError(err)
		}

		ctx := c.Request().Context()
		err = store.Transaction(ctx, func(tx *moodstore.Store) error {
			for _, entry := range entries {
				if err := tx.Upsert(ctx, entry); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return errors.Wrap(err, "importing entries")
		}
		observability.RecordEntriesWritten(observability.SourceImport, len(entries), now())
		logrus.Infof("Imported %d entries, skipped %d keys", len(entries), skipped)

		return c.JSON(http.StatusOK, types.ImportResponse{Success: true, Imported: len(entries), Skipped: skipped})
	}
}
