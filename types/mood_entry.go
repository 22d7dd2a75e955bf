package types

import (
	"time"
)

type MoodEntry struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Date            Day       `json:"date" gorm:"type:date;uniqueIndex;not null"`
	Mood            int       `json:"mood" gorm:"not null" validate:"min=1,max=5"`
	SleepHours      int       `json:"sleep_hours" gorm:"not null" validate:"gte=0"`
	CreativeHours   int       `json:"creative_hours" gorm:"not null" validate:"gte=0"`
	MealCount       int       `json:"meal_count" gorm:"not null" validate:"gte=0"`
	ExerciseMinutes int       `json:"exercise_minutes" gorm:"not null" validate:"gte=0"`
	TookMedicine    int       `json:"took_medicine" gorm:"not null" validate:"oneof=0 1"`
	CreatedAt       time.Time `json:"-" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"-" gorm:"autoUpdateTime"`
}

// Defaults applied by the entry API for fields a payload leaves out.
const (
	DefaultMood            = 3
	DefaultSleepHours      = 7
	DefaultCreativeHours   = 0
	DefaultMealCount       = 0
	DefaultExerciseMinutes = 0
	DefaultTookMedicine    = 0
)

// ExerciseChoices are the minute values the dashboard offers. Other values are still stored.
var ExerciseChoices = []int{0, 15, 30, 45, 60}

// EntryValues is an entry without its identity, as used in the export format.
type EntryValues struct {
	Mood            int `json:"mood"`
	SleepHours      int `json:"sleep_hours"`
	CreativeHours   int `json:"creative_hours"`
	MealCount       int `json:"meal_count"`
	ExerciseMinutes int `json:"exercise_minutes"`
	TookMedicine    int `json:"took_medicine"`
}

func (e MoodEntry) Values() EntryValues {
	return EntryValues{
		Mood:            e.Mood,
		SleepHours:      e.SleepHours,
		CreativeHours:   e.CreativeHours,
		MealCount:       e.MealCount,
		ExerciseMinutes: e.ExerciseMinutes,
		TookMedicine:    e.TookMedicine,
	}
}
