package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oliverisaac/moodsignage/lib/moodstore"
	"github.com/oliverisaac/moodsignage/lib/seed"
	"github.com/oliverisaac/moodsignage/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.Local)

var today = types.MustParseDay("2026-10-19")

type alwaysRand struct{}

func (alwaysRand) Float64() float64 { return 0 }
func (alwaysRand) Intn(n int) int   { return n - 1 }

func testConfig() types.Config {
	return types.Config{
		DBDriver:        types.DriverSQLite,
		CookieSecret:    []byte("test-secret"),
		DefaultDays:     14,
		MaxDays:         3660,
		SeedDays:        91,
		SeedProbability: 0.8,
		AllowDummy:      true,
	}
}

type testApp struct {
	e     *echo.Echo
	store *moodstore.Store
}

func newTestApp(t *testing.T, cfg types.Config) testApp {
	t.Helper()
	cfg.DBPath = filepath.Join(t.TempDir(), "mood.db")
	db, err := moodstore.Open(cfg)
	require.NoError(t, err)
	store := moodstore.New(db)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Initialize(context.Background()))

	gen := &seed.Generator{Days: cfg.SeedDays, Probability: cfg.SeedProbability, Rand: alwaysRand{}}
	return testApp{
		e:     newServer(cfg, store, gen, func() time.Time { return fixedNow }),
		store: store,
	}
}

func (a testApp) do(t *testing.T, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a testApp) entries(t *testing.T, days string) []types.MoodEntry {
	t.Helper()
	rec := a.do(t, http.MethodGet, "/api/entries?days="+days, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got []types.MoodEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func (a testApp) seedDays(t *testing.T, from, to int) {
	t.Helper()
	for i := from; i <= to; i++ {
		require.NoError(t, a.store.Upsert(context.Background(), types.MoodEntry{Date: today.AddDays(i), Mood: 3, SleepHours: 7}))
	}
}

func entryDates(entries []types.MoodEntry) []string {
	ret := []string{}
	for _, e := range entries {
		ret = append(ret, e.Date.String())
	}
	return ret
}

func TestSaveTodayFillsDefaults(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := app.do(t, http.MethodPost, "/api/entries", "{}")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success": true, "date": "2026-10-19"}`, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/entries?days=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{
		"id": 1, "date": "2026-10-19", "mood": 3, "sleep_hours": 7, "creative_hours": 0,
		"meal_count": 0, "exercise_minutes": 0, "took_medicine": 0
	}]`, rec.Body.String())
}

func TestSaveTodayWithEmptyBody(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := app.do(t, http.MethodPost, "/api/entries", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := app.entries(t, "1")
	require.Len(t, got, 1)
	assert.Equal(t, types.DefaultMood, got[0].Mood)
}

func TestSaveTodayReplacesInsteadOfMerging(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := app.do(t, http.MethodPost, "/api/entries", `{"mood": 5, "sleep_hours": 9, "meal_count": 3, "took_medicine": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(t, http.MethodPost, "/api/entries", `{"mood": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got := app.entries(t, "1")
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Mood)
	assert.Equal(t, 7, got[0].SleepHours)
	assert.Equal(t, 0, got[0].MealCount)
	assert.Equal(t, 0, got[0].TookMedicine)
}

func TestSaveTodayIgnoresClientDate(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := app.do(t, http.MethodPost, "/api/entries", `{"date": "2020-01-01", "mood": 4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2026-10-19")

	all, err := app.store.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-10-19"}, entryDates(all))
}

func TestSaveTodayRejectsBadPayloads(t *testing.T) {
	app := newTestApp(t, testConfig())

	for _, body := range []string{`{not json`, `[1, 2, 3]`, `{"mood": 9}`, `{"sleep_hours": -3}`, `{"mood": "great"}`} {
		rec := app.do(t, http.MethodPost, "/api/entries", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["message"], body)
	}

	all, err := app.store.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSaveTodayExplainsEveryBadField(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := app.do(t, http.MethodPost, "/api/entries", `{"mood": 0, "meal_count": -1, "took_medicine": 2}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "mood must be at least 1, got 0")
	assert.Contains(t, resp["message"], "meal_count must not be negative, got -1")
	assert.Contains(t, resp["message"], "took_medicine must be one of 0, 1, got 2")
}

func TestSaveTodayRejectsOversizedIntegers(t *testing.T) {
	app := newTestApp(t, testConfig())

	for _, body := range []string{`{"sleep_hours": 3000000000}`, `{"sleep_hours": 3000000000.4}`} {
		rec := app.do(t, http.MethodPost, "/api/entries", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	all, err := app.store.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPanicsBecomeServerErrors(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.e.GET("/boom", func(c echo.Context) error {
		panic("boom")
	})

	rec := app.do(t, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetEntriesReturnsExactWindow(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.seedDays(t, -10, 0)

	got := app.entries(t, "7")
	assert.Equal(t, []string{
		"2026-10-13", "2026-10-14", "2026-10-15", "2026-10-16",
		"2026-10-17", "2026-10-18", "2026-10-19",
	}, entryDates(got))
}

func TestGetEntriesDefaultsTo14Days(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.seedDays(t, -30, 0)

	for _, target := range []string{"/api/entries", "/api/entries?days=", "/api/entries?days=abc"} {
		rec := app.do(t, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)
		var got []types.MoodEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 14, target)
		assert.Equal(t, "2026-10-06", got[0].Date.String())
	}
}

func TestGetEntriesEmptyWindow(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.seedDays(t, -60, -30)

	rec := app.do(t, http.MethodGet, "/api/entries?days=7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetEntriesNonPositiveDaysIsEmpty(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.seedDays(t, -3, 0)

	for _, days := range []string{"0", "-7"} {
		rec := app.do(t, http.MethodGet, "/api/entries?days="+days, "")
		require.Equal(t, http.StatusOK, rec.Code, days)
		assert.JSONEq(t, `[]`, rec.Body.String(), days)
		assert.Empty(t, rec.Result().Cookies(), "empty windows are not remembered")
	}
}

func TestGetEntriesClampsHugeWindows(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDays = 30
	app := newTestApp(t, cfg)
	app.seedDays(t, -45, 0)

	got := app.entries(t, "100000")
	require.Len(t, got, 30)
	assert.Equal(t, "2026-09-20", got[0].Date.String())
}

func TestGenerateDummy(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := app.do(t, http.MethodPost, "/api/generate-dummy", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp types.DummyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 91, resp.Generated)
	assert.NotEmpty(t, resp.Message)

	got := app.entries(t, "91")
	assert.Len(t, got, 91)
	assert.Equal(t, 5, got[0].Mood)
}

func TestGenerateDummyCanBeDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.AllowDummy = false
	app := newTestApp(t, cfg)

	rec := app.do(t, http.MethodPost, "/api/generate-dummy", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestApp(t, testConfig())
	ctx := context.Background()
	require.NoError(t, src.store.Upsert(ctx, types.MoodEntry{Date: today.AddDays(-1), Mood: 2, SleepHours: 5, CreativeHours: 1, MealCount: 2, ExerciseMinutes: 15}))
	require.NoError(t, src.store.Upsert(ctx, types.MoodEntry{Date: today, Mood: 4, SleepHours: 8, MealCount: 3, ExerciseMinutes: 60, TookMedicine: 1}))

	rec := src.do(t, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "mood-data-20261019.json")
	exported := rec.Body.String()

	dst := newTestApp(t, testConfig())
	rec = dst.do(t, http.MethodPost, "/api/import", exported)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success": true, "imported": 2, "skipped": 0}`, rec.Body.String())

	want, err := src.store.All(ctx)
	require.NoError(t, err)
	got, err := dst.store.All(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Date.String(), got[i].Date.String())
		assert.Equal(t, want[i].Values(), got[i].Values())
	}
}

func TestImportIsAllOrNothing(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := app.do(t, http.MethodPost, "/api/import", `{"2026-10-18": {"mood": 4}, "2026-10-19": {"mood": 0}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "2026-10-19")

	all, err := app.store.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	rec = app.do(t, http.MethodPost, "/api/import", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportSkipsNonDateKeys(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := app.do(t, http.MethodPost, "/api/import", `{"2026-10-19": {"mood": 5}, "version": 2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success": true, "imported": 1, "skipped": 1}`, rec.Body.String())
}

func TestHomePageShowsTodaysEntry(t *testing.T) {
	app := newTestApp(t, testConfig())
	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/api/entries", `{"mood": 4}`).Code)

	rec := app.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, `data-today="2026-10-19"`)
	assert.Contains(t, body, `data-days="14"`)
	assert.Contains(t, body, `mood-button active" data-field="mood" data-value="4"`)
}

func TestWindowPreferenceIsRemembered(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := app.do(t, http.MethodGet, "/api/entries?days=28", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = app.do(t, http.MethodGet, "/", "", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-days="28"`)
}

func TestHealthzAndMetrics(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := app.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/api/entries", `{}`).Code)
	rec = app.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `moodsignage_entries_written_total{source="api"}`)
}

func TestStaticAssetsAreServed(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := app.do(t, http.MethodGet, "/static/app.js", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/entries")
}
