package ui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-dateselect/internal/config"
	"github.com/tartampluch/go-dateselect/internal/engine"
	"github.com/tartampluch/go-dateselect/internal/locale"
	"github.com/tartampluch/go-dateselect/internal/server"
)

// setupTestApp initializes a headless Fyne app with a pinned clock.
func setupTestApp(t *testing.T, lang string) *DateSelectApp {
	t.Helper()
	a := test.NewApp()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := server.NewSelectionServer("0") // Handler tests only; never started
	srv.Clock = MockClock{CurrentTime: today}

	selector := engine.New(engine.WithClock(MockClock{CurrentTime: today}))
	app := NewDateSelectApp(a, ctx, srv, selector, locale.Default(), lang)
	app.Preferences.SetString(config.PrefLanguage, lang)

	w := app.Build()
	t.Cleanup(w.Close)
	return app
}

func fetch(t *testing.T, srv *server.SelectionServer, route string) (*http.Response, []byte) {
	t.Helper()
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, route, nil))
	resp := w.Result()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, body
}

// -----------------------------------------------------------------------------
// Publishing Tests
// -----------------------------------------------------------------------------

func TestApp_PublishesInitialState(t *testing.T) {
	app := setupTestApp(t, "en")

	assert.Equal(t, "Selected: -", app.selectedLabel.Text)
	assert.Equal(t, "Pick a date", app.Window.Title())

	resp, body := fetch(t, app.Server, config.RouteSelectionJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode, "Build publishes a first snapshot")

	var snap map[string]any
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Nil(t, snap["value"])

	resp, _ = fetch(t, app.Server, config.RouteSelectionICS)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestApp_PublishesUserSelection(t *testing.T) {
	app := setupTestApp(t, "en")
	app.Name = "Alice"

	app.Picker.year.SetSelected("1990")
	app.Picker.month.SetSelected("August")
	app.Picker.day.SetSelected("1")

	assert.Equal(t, "Selected: 1990-08-01", app.selectedLabel.Text)

	resp, body := fetch(t, app.Server, config.RouteSelectionICS)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "DTSTART;VALUE=DATE:19900801")
	assert.Contains(t, string(body), "SUMMARY:Alice")

	// Breaking the selection withdraws the calendar.
	app.Picker.year.SetSelected("1991")
	app.Picker.month.SetSelected("February")
	require.NoError(t, app.Selector.SetDay(nil))
	assert.Equal(t, "Selected: -", app.selectedLabel.Text)

	resp, _ = fetch(t, app.Server, config.RouteSelectionICS)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// -----------------------------------------------------------------------------
// Localization Tests
// -----------------------------------------------------------------------------

func TestApp_LanguageSwitching(t *testing.T) {
	app := setupTestApp(t, "en")
	require.NoError(t, app.Selector.Write(engine.NewSelectionDate(1990, 7, 1)))

	app.langSelect.SetSelected("tr")

	assert.Equal(t, "tr", app.Preferences.String(config.PrefLanguage))
	assert.Equal(t, "Tarih seçiniz", app.Window.Title())
	assert.Equal(t, "Dil", app.languageLabel.Text)
	assert.Equal(t, "Seçilen: 1990-08-01", app.selectedLabel.Text)
	assert.Equal(t, "Ağustos", app.Picker.month.Selected)

	_, body := fetch(t, app.Server, config.RouteSelectionICS)
	assert.Contains(t, string(body), "SUMMARY:Seçilen tarih")
}

func TestApp_StoredLanguageWins(t *testing.T) {
	a := test.NewApp()
	a.Preferences().SetString(config.PrefLanguage, "tr")

	app := NewDateSelectApp(a, context.Background(), nil, engine.New(), locale.Default(), "en")
	assert.Equal(t, "tr", app.Language())

	a.Preferences().RemoveValue(config.PrefLanguage)
	app = NewDateSelectApp(a, context.Background(), nil, engine.New(), locale.Default(), "en")
	assert.Equal(t, "en", app.Language(), "An empty preference is seeded from settings")
}

// -----------------------------------------------------------------------------
// Seed Tests
// -----------------------------------------------------------------------------

func TestDefaultSelection(t *testing.T) {
	clock := MockClock{CurrentTime: today}
	hi := engine.NewSelectionDate(2020, 0, 1)
	lo := engine.NewSelectionDate(2030, 0, 1)

	assert.Equal(t, engine.NewSelectionDate(2026, 9, 19), DefaultSelection(clock, nil, nil))
	assert.Equal(t, hi, DefaultSelection(clock, nil, &hi), "Today is clamped to the maximum")
	assert.Equal(t, lo, DefaultSelection(clock, &lo, nil), "Today is raised to the minimum")
}

func TestDisplayValue(t *testing.T) {
	v := engine.NewSelectionDate(1992, 1, 29)
	assert.Equal(t, "1992-02-29", displayValue(&v))
	assert.Equal(t, config.ValueIncomplete, displayValue(nil))
}
