package render

import (
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-listviews/pkg/sorting"
)

// ErrMissingTranslator is reported to the missing handler when no translator
// is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

func (f TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return f(locale, key, args...)
}

// MissingTranslationHandler returns the text used when key has no
// translation. args carries the call arguments; labels pass a single
// map with a "default" entry and templates may pass a bare string.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case map[string]any:
			if def, ok := v["default"].(string); ok && strings.TrimSpace(def) != "" {
				return def
			}
		}
	}
	return key
}

// Translate resolves key through opts.Translator, falling back to fallback
// (or the key itself) through opts.OnMissing.
func Translate(opts RenderOptions, key, fallback string) string {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return translate(opts.Locale, key, fallback, opts.Translator, onMissing)
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	args := []any{map[string]any{"default": fallback}}
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, args, err)
}

// WeekdayKey is the translation key for a weekday name, e.g.
// "calendar.weekday.monday".
func WeekdayKey(day time.Weekday) string {
	return "calendar.weekday." + strings.ToLower(day.String())
}

// WeekdayLabels translates the weekday header of a month grid.
func WeekdayLabels(opts RenderOptions, days []time.Weekday) []string {
	out := make([]string, len(days))
	for i, day := range days {
		out[i] = Translate(opts, WeekdayKey(day), day.String())
	}
	return out
}

// DirectionKey is the translation key for a sort direction, e.g.
// "sorting.direction.desc".
func DirectionKey(d sorting.Direction) string {
	return "sorting.direction." + string(d)
}

// DirectionLabel translates a sort direction, defaulting to
// "ascending"/"descending".
func DirectionLabel(opts RenderOptions, d sorting.Direction) string {
	fallback := "ascending"
	if d == sorting.Descending {
		fallback = "descending"
	}
	return Translate(opts, DirectionKey(d), fallback)
}

// MonthKey is the translation key for a month name, e.g. "calendar.month.march".
func MonthKey(m time.Month) string {
	return "calendar.month." + strings.ToLower(m.String())
}

// MonthLabel translates a month name.
func MonthLabel(opts RenderOptions, m time.Month) string {
	return Translate(opts, MonthKey(m), m.String())
}
