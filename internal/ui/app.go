package ui

import (
	"context"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-dateselect/internal/config"
	"github.com/tartampluch/go-dateselect/internal/engine"
	"github.com/tartampluch/go-dateselect/internal/locale"
	"github.com/tartampluch/go-dateselect/internal/server"
)

// DateSelectApp hosts the picker window and publishes every change to the local server.
type DateSelectApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	Catalog     *locale.Catalog
	Ctx         context.Context

	Server   *server.SelectionServer
	Selector *engine.Selector
	Picker   *DateSelect

	// Name titles the published calendar event; empty means the localized default.
	Name string

	langSelect    *widget.Select
	languageLabel *widget.Label
	selectedLabel *widget.Label
}

// NewDateSelectApp wires dependencies. lang seeds the language preference when none is stored.
func NewDateSelectApp(a fyne.App, ctx context.Context, srv *server.SelectionServer, selector *engine.Selector, catalog *locale.Catalog, lang string) *DateSelectApp {
	prefs := a.Preferences()
	if prefs.String(config.PrefLanguage) == "" && lang != "" {
		prefs.SetString(config.PrefLanguage, lang)
	}

	return &DateSelectApp{
		App:         a,
		Preferences: prefs,
		Catalog:     catalog,
		Ctx:         ctx,
		Server:      srv,
		Selector:    selector,
	}
}

// Language returns the active display language.
func (app *DateSelectApp) Language() string {
	return app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
}

// Build creates the main window content without showing it.
func (app *DateSelectApp) Build() fyne.Window {
	lang := app.Language()

	w := app.App.NewWindow(app.Catalog.Message(lang, config.TKeyWinTitle, nil))
	app.Window = w

	app.Picker = NewDateSelect(app.Selector, app.Catalog, lang)
	app.Picker.OnChanged = app.publish

	app.langSelect = widget.NewSelect(app.Catalog.Languages(), nil)
	app.langSelect.SetSelected(lang)
	app.langSelect.OnChanged = app.SetLanguage
	app.languageLabel = widget.NewLabel(app.Catalog.Message(lang, config.TKeyLblLanguage, nil))

	app.selectedLabel = widget.NewLabel("")

	w.SetContent(container.NewVBox(
		container.NewBorder(nil, nil, app.languageLabel, nil, app.langSelect),
		app.Picker,
		app.selectedLabel,
	))
	w.Resize(fyne.NewSize(config.WindowWidth, w.Content().MinSize().Height))

	app.publish(app.currentValue())
	return w
}

// Run shows the window, serves the selection in the background and blocks on the fyne loop.
func (app *DateSelectApp) Run() {
	if app.Window == nil {
		app.Build()
	}

	go func() {
		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
		}
	}()

	app.Window.SetMaster()
	app.Window.Show()
	app.App.Run()
}

// SetLanguage stores lang and relabels the window.
func (app *DateSelectApp) SetLanguage(lang string) {
	if lang == "" {
		return
	}
	app.Preferences.SetString(config.PrefLanguage, lang)
	slog.Info(config.MsgLangChanged,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyLang, lang,
	)

	if app.Window != nil {
		app.Window.SetTitle(app.Catalog.Message(lang, config.TKeyWinTitle, nil))
		app.languageLabel.SetText(app.Catalog.Message(lang, config.TKeyLblLanguage, nil))
		app.Picker.SetLanguage(lang)
		app.publish(app.currentValue())
	}
}

// Summary is the title given to the published calendar event.
func (app *DateSelectApp) Summary() string {
	if app.Name != "" {
		return app.Name
	}
	return app.Catalog.Message(app.Language(), config.TKeyEvtSummary, nil)
}

func (app *DateSelectApp) currentValue() *engine.SelectionDate {
	v := app.Selector.Value()
	if !v.Complete() {
		return nil
	}
	return &v
}

// publish refreshes the value label and the served snapshot.
func (app *DateSelectApp) publish(value *engine.SelectionDate) {
	if app.selectedLabel != nil {
		app.selectedLabel.SetText(app.Catalog.Message(app.Language(), config.TKeyLblSelected, map[string]any{
			"Date": displayValue(value),
		}))
	}

	if app.Server == nil {
		return
	}
	if err := app.Server.Update(server.SnapshotOf(app.Selector, app.Summary())); err != nil {
		slog.Error(config.ErrICalEncode,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err,
		)
	}
}

func displayValue(value *engine.SelectionDate) string {
	if value == nil {
		return config.ValueIncomplete
	}
	t, ok := value.Time()
	if !ok {
		return config.ValueIncomplete
	}
	return t.Format(config.ValueDisplayFormat)
}

// DefaultSelection returns today clamped into [lo, hi], the seed used when nothing is imported.
// Nil bounds are open.
func DefaultSelection(clock engine.Clock, lo, hi *engine.SelectionDate) engine.SelectionDate {
	today := engine.FromTime(clock.Now())
	if before, err := engine.Before(hi, &today); err == nil && before {
		return *hi
	}
	if before, err := engine.Before(&today, lo); err == nil && before {
		return *lo
	}
	return today
}
