package moodclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/oliverisaac/moodsignage/types"
	"github.com/pkg/errors"
)

// SaveToday posts the given fields as today's entry. Fields left out are defaulted by the
// server. It returns the date the server wrote.
func SaveToday(endpoint string, fields map[string]int) (string, error) {
	endpointURL, err := apiURL(endpoint, "/api/entries")
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(fields)
	if err != nil {
		return "", errors.Wrap(err, "Marshalling entry fields")
	}

	resp, err := http.Post(endpointURL.String(), "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var saved types.SaveResponse
	if err := decode(resp, &saved); err != nil {
		return "", errors.Wrap(err, "Failed to save entry")
	}
	return saved.Date, nil
}

// Recent fetches the entries of the last days days, oldest first.
func Recent(endpoint string, days int) ([]types.MoodEntry, error) {
	endpointURL, err := apiURL(endpoint, "/api/entries")
	if err != nil {
		return nil, err
	}
	if days > 0 {
		endpointURL.RawQuery = url.Values{"days": {strconv.Itoa(days)}}.Encode()
	}

	resp, err := http.Get(endpointURL.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var entries []types.MoodEntry
	if err := decode(resp, &entries); err != nil {
		return nil, errors.Wrap(err, "Failed to fetch entries")
	}
	return entries, nil
}

func apiURL(endpoint, path string) (*url.URL, error) {
	endpointURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "Parsing endpoint")
	}
	endpointURL.Path = path
	if endpointURL.Scheme == "" {
		endpointURL.Scheme = "https"
	}
	return endpointURL, nil
}

func decode(resp *http.Response, into any) error {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "Failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Message)
		}
		return fmt.Errorf("%s: %s", resp.Status, string(respBody))
	}

	return errors.Wrap(json.Unmarshal(respBody, into), "Decoding response")
}
