package types

import (
	"bytes"
	"encoding/json"
	errs "errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrMalformedPayload = errs.New("request body must be a JSON object")

// ValidationError lists every field that could not be accepted.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid entry: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// EntryPayload holds the fields a client sent. A nil field was not sent.
type EntryPayload struct {
	Mood            *int
	SleepHours      *int
	CreativeHours   *int
	MealCount       *int
	ExerciseMinutes *int
	TookMedicine    *int
}

// ParseEntryPayload decodes a request body. An empty body counts as an empty object.
func ParseEntryPayload(body []byte) (EntryPayload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return EntryPayload{}, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return EntryPayload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if fields == nil {
		return EntryPayload{}, ErrMalformedPayload
	}
	return PayloadFromFields(fields)
}

// PayloadFromFields coerces the known keys of a decoded JSON object. Unknown keys are ignored.
func PayloadFromFields(fields map[string]json.RawMessage) (EntryPayload, error) {
	var p EntryPayload
	verr := &ValidationError{}
	for _, f := range []struct {
		name string
		dst  **int
	}{
		{"mood", &p.Mood},
		{"sleep_hours", &p.SleepHours},
		{"creative_hours", &p.CreativeHours},
		{"meal_count", &p.MealCount},
		{"exercise_minutes", &p.ExerciseMinutes},
		{"took_medicine", &p.TookMedicine},
	} {
		raw, ok := fields[f.name]
		if !ok {
			continue
		}
		v, err := coerceInt(raw)
		if err != nil {
			verr.add("%s: %v", f.name, err)
			continue
		}
		*f.dst = v
	}
	return p, verr.orNil()
}

// Entry fills every missing field with its default and keys the result to day.
func (p EntryPayload) Entry(day Day) MoodEntry {
	return MoodEntry{
		Date:            day,
		Mood:            valueOr(p.Mood, DefaultMood),
		SleepHours:      valueOr(p.SleepHours, DefaultSleepHours),
		CreativeHours:   valueOr(p.CreativeHours, DefaultCreativeHours),
		MealCount:       valueOr(p.MealCount, DefaultMealCount),
		ExerciseMinutes: valueOr(p.ExerciseMinutes, DefaultExerciseMinutes),
		TookMedicine:    valueOr(p.TookMedicine, DefaultTookMedicine),
	}
}

// Validate rejects values the dashboard could never produce. Nothing is clamped.
func (e MoodEntry) Validate() error {
	return ValidateStruct(e)
}

func valueOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func coerceInt(raw json.RawMessage) (*int, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	switch val := v.(type) {
	case nil:
		return nil, nil
	case bool:
		n := 0
		if val {
			n = 1
		}
		return &n, nil
	case json.Number:
		return roundToInt(string(val))
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil, nil
		}
		return roundToInt(s)
	default:
		return nil, fmt.Errorf("expected a number, got %s", string(raw))
	}
}

func roundToInt(s string) (*int, error) {
	var n int
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		if i > math.MaxInt32 || i < math.MinInt32 {
			return nil, fmt.Errorf("%q is out of range", s)
		}
		n = int(i)
		return &n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	f = math.Round(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return nil, fmt.Errorf("%q is out of range", s)
	}
	n = int(f)
	return &n, nil
}
