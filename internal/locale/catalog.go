package locale

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-dateselect/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Labels are the placeholder texts shown while a dropdown has no selection.
type Labels struct {
	Day   string
	Month string
	Year  string
}

// Catalog is a read-only table of month names and default labels per language.
// Tables are resolved once at load time; lookups never touch the bundle.
type Catalog struct {
	bundle    *i18n.Bundle
	languages []string
	months    map[string][]string
	labels    map[string]Labels
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return NewCatalog(localeFS, "locales")
})

// Default returns the catalog built from the embedded locale files.
func Default() *Catalog {
	c, err := defaultCatalog()
	if err != nil {
		// The embedded files are validated by tests; an empty catalog keeps lookups safe.
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompLocale,
			config.LogKeyError, err,
		)
		return &Catalog{months: map[string][]string{}, labels: map[string]Labels{}}
	}
	return c
}

// NewCatalog loads every active.<lang>.json file found in dir.
// English is the fallback for languages without a file.
func NewCatalog(fsys fs.FS, dir string) (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}

	var detected []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompLocale,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompLocale,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(fsys, path.Join(dir, name)); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompLocale,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		detected = append(detected, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompLocale,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	if len(detected) == 0 {
		return nil, errors.New(config.ErrLocaleEmpty)
	}
	slices.Sort(detected)

	c := &Catalog{
		bundle:    bundle,
		languages: detected,
		months:    make(map[string][]string, len(detected)),
		labels:    make(map[string]Labels, len(detected)),
	}
	for _, lang := range detected {
		loc := i18n.NewLocalizer(bundle, lang)
		names := make([]string, config.MonthsPerYear)
		for m := range names {
			names[m] = localize(loc, config.TKeyMonthPrefix+strconv.Itoa(m), nil)
		}
		c.months[lang] = names
		c.labels[lang] = Labels{
			Day:   localize(loc, config.TKeyLabelDay, nil),
			Month: localize(loc, config.TKeyLabelMonth, nil),
			Year:  localize(loc, config.TKeyLabelYear, nil),
		}
	}
	return c, nil
}

// Languages returns the language codes with a locale file, sorted.
func (c *Catalog) Languages() []string {
	return slices.Clone(c.languages)
}

// MonthNames returns the twelve month names for lang, January first.
func (c *Catalog) MonthNames(lang string) []string {
	return slices.Clone(c.months[c.resolve(lang)])
}

// MonthName returns the display name of a zero-indexed month, or "" when out of range.
func (c *Catalog) MonthName(lang string, month int) string {
	names := c.months[c.resolve(lang)]
	if month < 0 || month >= len(names) {
		return ""
	}
	return names[month]
}

// DefaultLabels returns the placeholder labels for lang.
func (c *Catalog) DefaultLabels(lang string) Labels {
	return c.labels[c.resolve(lang)]
}

// Message translates any other key, returning the key itself when missing.
func (c *Catalog) Message(lang, key string, data map[string]any) string {
	if c.bundle == nil {
		return key
	}
	return localize(i18n.NewLocalizer(c.bundle, c.resolve(lang)), key, data)
}

// resolve maps lang (e.g. "TR", "tr-TR") to a loaded language, falling back to English.
func (c *Catalog) resolve(lang string) string {
	if _, ok := c.months[lang]; ok {
		return lang
	}
	if tag, err := language.Parse(lang); err == nil {
		base, _ := tag.Base()
		if _, ok := c.months[base.String()]; ok {
			return base.String()
		}
	}
	return config.DefaultLanguage
}

func localize(loc *i18n.Localizer, key string, data map[string]any) string {
	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompLocale,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}
