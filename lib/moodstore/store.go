// Package moodstore persists one MoodEntry per calendar day.
package moodstore

import (
	"context"
	errs "errors"
	"time"

	_ "github.com/ncruces/go-sqlite3/embed"
	sqlite "github.com/ncruces/go-sqlite3/gormlite"
	"github.com/oliverisaac/moodsignage/types"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidDate = errs.New("entry date must be set")

// replacedColumns are overwritten when a write hits an existing date.
var replacedColumns = []string{
	"mood",
	"sleep_hours",
	"creative_hours",
	"meal_count",
	"exercise_minutes",
	"took_medicine",
	"updated_at",
}

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open connects to the database named by cfg. It does not create the schema.
func Open(cfg types.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case types.DriverPostgres:
		dialector = postgres.Open(cfg.DBDSN)
	case types.DriverSQLite, "":
		dialector = sqlite.Open(cfg.DBPath)
	default:
		return nil, errors.Errorf("unknown database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}
	return db, nil
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// WithClock replaces the timestamp source used for created_at/updated_at.
func (s *Store) WithClock(now func() time.Time) *Store {
	return &Store{db: s.db, now: now}
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "getting sql handle")
	}
	return sqlDB.Close()
}

// Initialize creates the mood_entries table and its unique date index if they are missing.
func (s *Store) Initialize(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&types.MoodEntry{}); err != nil {
		return errors.Wrap(err, "migrating mood entries")
	}
	return nil
}

// Upsert writes entry as the only row for entry.Date. An existing row keeps its id and
// created_at; every other column is replaced. Values are stored as given.
func (s *Store) Upsert(ctx context.Context, entry types.MoodEntry) error {
	if entry.Date.IsZero() {
		return ErrInvalidDate
	}
	now := s.now()
	entry.ID = 0
	entry.CreatedAt = now
	entry.UpdatedAt = now

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns(replacedColumns),
		}).
		Create(&entry).Error
	return errors.Wrapf(err, "upserting entry for %s", entry.Date)
}

// QueryRange returns entries with start <= date <= end in date order.
func (s *Store) QueryRange(ctx context.Context, start, end types.Day) ([]types.MoodEntry, error) {
	ret := []types.MoodEntry{}
	if start.After(end) {
		return ret, nil
	}
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC").
		Find(&ret).Error
	if err != nil {
		return nil, errors.Wrapf(err, "querying entries from %s to %s", start, end)
	}
	return ret, nil
}

// All returns every stored entry in date order.
func (s *Store) All(ctx context.Context) ([]types.MoodEntry, error) {
	ret := []types.MoodEntry{}
	if err := s.db.WithContext(ctx).Order("date ASC").Find(&ret).Error; err != nil {
		return nil, errors.Wrap(err, "listing all entries")
	}
	return ret, nil
}

// Transaction runs fn against a Store bound to a single transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, now: s.now})
	})
}
