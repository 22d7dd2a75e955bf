package types

import (
	"bytes"
	"encoding/json"
	errs "errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// Export is the date-keyed file format the dashboard downloads and uploads.
type Export map[string]EntryValues

func NewExport(entries []MoodEntry) Export {
	ret := make(Export, len(entries))
	for _, e := range entries {
		ret[e.Date.String()] = e.Values()
	}
	return ret
}

// ParseImport reads an export file. Keys that are not dates are skipped and counted;
// every value is default-filled and validated like a saved entry. Any invalid value
// rejects the whole file. Entries come back in date order.
func ParseImport(body []byte) ([]MoodEntry, int, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(body), &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if raw == nil {
		return nil, 0, ErrMalformedPayload
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var entries []MoodEntry
	skipped := 0
	verr := &ValidationError{}
	for _, key := range keys {
		day, err := ParseDay(key)
		if err != nil {
			logrus.Debugf("Skipping import key %q: not a date", key)
			skipped++
			continue
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw[key], &fields); err != nil || fields == nil {
			verr.add("%s: entry must be an object", key)
			continue
		}

		payload, err := PayloadFromFields(fields)
		if err == nil {
			entry := payload.Entry(day)
			err = entry.Validate()
			if err == nil {
				entries = append(entries, entry)
				continue
			}
		}
		var fieldErr *ValidationError
		if !errs.As(err, &fieldErr) {
			return nil, skipped, err
		}
		for _, p := range fieldErr.Problems {
			verr.add("%s: %s", key, p)
		}
	}

	if err := verr.orNil(); err != nil {
		return nil, skipped, err
	}
	return entries, skipped, nil
}
