// Package seed backfills recent days with plausible random entries for demos.
package seed

import (
	"context"
	"math/rand"
	"time"

	"github.com/oliverisaac/moodsignage/lib/moodstore"
	"github.com/oliverisaac/moodsignage/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultDays        = 91
	DefaultProbability = 0.8
)

// Rand is the subset of *rand.Rand the generator draws from.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type Generator struct {
	Days        int
	Probability float64
	Rand        Rand
}

func NewGenerator(days int, probability float64) *Generator {
	return &Generator{
		Days:        days,
		Probability: probability,
		Rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Window is the range of days Generate touches when run on today.
func (g *Generator) Window(today types.Day) (moodstore.Window, error) {
	days := g.Days
	if days == 0 {
		days = DefaultDays
	}
	return moodstore.NewWindow(today, days)
}

// Generate upserts a random entry for each day of the window that wins the
// probability draw and leaves the other days alone. It reports how many days it wrote.
func (g *Generator) Generate(ctx context.Context, store *moodstore.Store, today types.Day) (int, error) {
	w, err := g.Window(today)
	if err != nil {
		return 0, err
	}

	written := 0
	err = store.Transaction(ctx, func(tx *moodstore.Store) error {
		for _, day := range w.Days() {
			if g.Rand.Float64() >= g.Probability {
				continue
			}
			if err := tx.Upsert(ctx, g.Entry(day)); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "seeding %s", w)
	}

	logrus.WithField("window", w.String()).Infof("Generated %d dummy entries", written)
	return written, nil
}

// Entry draws one entry's values independently and uniformly.
func (g *Generator) Entry(day types.Day) types.MoodEntry {
	return types.MoodEntry{
		Date:            day,
		Mood:            g.between(1, 5),
		SleepHours:      g.between(4, 10),
		CreativeHours:   g.between(0, 8),
		MealCount:       g.between(1, 5),
		ExerciseMinutes: types.ExerciseChoices[g.Rand.Intn(len(types.ExerciseChoices))],
		TookMedicine:    g.between(0, 1),
	}
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.Rand.Intn(hi-lo+1)
}
