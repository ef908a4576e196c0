package ui

import (
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-dateselect/internal/config"
	"github.com/tartampluch/go-dateselect/internal/engine"
	"github.com/tartampluch/go-dateselect/internal/locale"
)

// DateSelect is a day / month / year dropdown triple driven by an engine.Selector.
// The widget is the Selector's single change observer; subscribe through OnChanged.
type DateSelect struct {
	widget.BaseWidget

	// OnChanged receives the composed value, or nil while incomplete.
	OnChanged func(value *engine.SelectionDate)

	selector *engine.Selector
	catalog  *locale.Catalog
	lang     string

	day   *widget.Select
	month *widget.Select
	year  *widget.Select

	// syncing suppresses Select callbacks while options are rewritten from the engine.
	syncing bool
}

// NewDateSelect creates the widget around selector.
func NewDateSelect(selector *engine.Selector, catalog *locale.Catalog, lang string) *DateSelect {
	d := &DateSelect{
		selector: selector,
		catalog:  catalog,
		lang:     lang,
	}
	d.day = widget.NewSelect(nil, d.dayChanged)
	d.month = widget.NewSelect(nil, d.monthChanged)
	d.year = widget.NewSelect(nil, d.yearChanged)

	selector.OnChange(d.valueChanged)
	d.ExtendBaseWidget(d)
	d.sync()
	return d
}

// CreateRenderer lays out day, month and year side by side.
func (d *DateSelect) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewGridWithColumns(config.LayoutColumnsTriple, d.day, d.month, d.year))
}

// Write forwards an external value to the engine.
func (d *DateSelect) Write(value any) error {
	return d.selector.Write(value)
}

// SetMinDate changes the lower bound and redraws the options.
func (d *DateSelect) SetMinDate(bound *engine.SelectionDate) error {
	if err := d.selector.SetMinDate(bound); err != nil {
		return err
	}
	d.sync()
	return nil
}

// SetMaxDate changes the upper bound and redraws the options.
func (d *DateSelect) SetMaxDate(bound *engine.SelectionDate) error {
	if err := d.selector.SetMaxDate(bound); err != nil {
		return err
	}
	d.sync()
	return nil
}

// SetLanguage switches month names and placeholders.
func (d *DateSelect) SetLanguage(lang string) {
	d.lang = lang
	d.sync()
}

// Disable freezes the three dropdowns.
func (d *DateSelect) Disable() {
	d.selector.SetEnabled(false)
	d.day.Disable()
	d.month.Disable()
	d.year.Disable()
}

// Enable unfreezes the three dropdowns.
func (d *DateSelect) Enable() {
	d.selector.SetEnabled(true)
	d.day.Enable()
	d.month.Enable()
	d.year.Enable()
}

// Disabled reports whether interaction is frozen.
func (d *DateSelect) Disabled() bool {
	return !d.selector.Enabled()
}

func (d *DateSelect) valueChanged(value *engine.SelectionDate) {
	d.sync()
	if d.OnChanged != nil {
		d.OnChanged(value)
	}
}

func (d *DateSelect) yearChanged(s string) {
	d.fieldChanged(config.FieldYear, s, d.selector.SetYear)
}

func (d *DateSelect) dayChanged(s string) {
	d.fieldChanged(config.FieldDay, s, d.selector.SetDay)
}

// monthChanged maps the localized label back to its zero-indexed month.
func (d *DateSelect) monthChanged(string) {
	if d.syncing {
		return
	}
	var raw any
	if i := d.month.SelectedIndex(); i >= 0 {
		raw = d.selector.Months()[i]
	}
	d.fieldChanged(config.FieldMonth, raw, d.selector.SetMonth)
}

func (d *DateSelect) fieldChanged(name string, raw any, set func(any) error) {
	if d.syncing {
		return
	}
	d.selector.MarkTouched()
	if err := set(raw); err != nil {
		slog.Warn(config.ErrInvalidInput,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyField, name,
			config.LogKeyError, err,
		)
		return
	}
	slog.Debug(config.MsgSelectChanged,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyField, name,
		config.LogKeyValue, raw,
	)
}

// sync rewrites options, placeholders and selections from the engine state.
func (d *DateSelect) sync() {
	d.syncing = true
	defer func() { d.syncing = false }()

	labels := d.catalog.DefaultLabels(d.lang)
	value := d.selector.Value()

	d.year.PlaceHolder = labels.Year
	syncSelect(d.year, intOptions(d.selector.Years()), value.Year, strconv.Itoa)

	d.month.PlaceHolder = labels.Month
	syncSelect(d.month, d.monthOptions(), value.Month, func(m int) string {
		return d.catalog.MonthName(d.lang, m)
	})

	d.day.PlaceHolder = labels.Day
	syncSelect(d.day, intOptions(d.selector.Days()), value.Day, strconv.Itoa)
}

func (d *DateSelect) monthOptions() []string {
	months := d.selector.Months()
	opts := make([]string, len(months))
	for i, m := range months {
		opts[i] = d.catalog.MonthName(d.lang, m)
	}
	return opts
}

func syncSelect(sel *widget.Select, options []string, f engine.Field, label func(int) string) {
	sel.Options = options
	if v, ok := f.Get(); ok {
		sel.SetSelected(label(v))
	} else {
		sel.ClearSelected()
	}
	sel.Refresh()
}

func intOptions(values []int) []string {
	opts := make([]string, len(values))
	for i, v := range values {
		opts[i] = strconv.Itoa(v)
	}
	return opts
}
