package main

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oliverisaac/moodsignage/lib/moodstore"
	"github.com/oliverisaac/moodsignage/lib/observability"
	"github.com/oliverisaac/moodsignage/lib/seed"
	"github.com/oliverisaac/moodsignage/types"
	"github.com/pkg/errors"
)

func generateDummy(store *moodstore.Store, gen *seed.Generator, now clock) echo.HandlerFunc {
	return func(c echo.Context) error {
		today := types.Today(now())
		window, err := gen.Window(today)
		if err != nil {
			return errors.Wrap(err, "building seed window")
		}

		n, err := gen.Generate(c.Request().Context(), store, today)
		if err != nil {
			return errors.Wrap(err, "generating dummy data")
		}
		observability.RecordEntriesWritten(observability.SourceSeed, n, now())

		return c.JSON(http.StatusOK, types.DummyResponse{
			Success:   true,
			Message:   fmt.Sprintf("Generated dummy data for %d days between %s and %s", n, window.Start, window.End),
			Generated: n,
		})
	}
}
