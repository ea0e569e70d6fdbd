package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-listviews/pkg/sorting"
)

// TemplateI18nConfig configures the template translation helpers.
type TemplateI18nConfig struct {
	// LocaleKey is read when a template passes a map instead of a locale
	// string. Defaults to "locale".
	LocaleKey string
	OnMissing MissingTranslationHandler
}

// TemplateI18nFuncs returns the helpers exposed to view templates:
//
//	translate(locale, key, ...args)
//	weekday_label(locale, 0..6)
//	month_label(locale, 1..12)
//	direction_label(locale, "asc"|"desc")
//	current_locale(locale)
//
// locale is a string or a map holding it under LocaleKey.
func TemplateI18nFuncs(t Translator, cfg TemplateI18nConfig) map[string]any {
	localeKey := strings.TrimSpace(cfg.LocaleKey)
	if localeKey == "" {
		localeKey = "locale"
	}
	onMissing := cfg.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	options := func(src any) RenderOptions {
		return RenderOptions{Locale: resolveLocale(src, localeKey), Translator: t, OnMissing: onMissing}
	}

	return map[string]any{
		"translate": func(src any, key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			locale := resolveLocale(src, localeKey)
			if t == nil {
				return onMissing(locale, key, params, ErrMissingTranslator)
			}
			msg, err := t.Translate(locale, key, params...)
			if err != nil || strings.TrimSpace(msg) == "" {
				return onMissing(locale, key, params, err)
			}
			return msg
		},
		"weekday_label": func(src any, day any) string {
			n, ok := asInt(day)
			if !ok || n < 0 {
				return fmt.Sprint(day)
			}
			wd := time.Weekday(n % 7)
			return Translate(options(src), WeekdayKey(wd), wd.String())
		},
		"month_label": func(src any, month any) string {
			n, ok := asInt(month)
			if !ok || n < 1 || n > 12 {
				return fmt.Sprint(month)
			}
			return MonthLabel(options(src), time.Month(n))
		},
		"direction_label": func(src any, dir string) string {
			d, _ := sorting.ParseDirection(dir)
			return DirectionLabel(options(src), d)
		},
		"current_locale": func(src any) string {
			return resolveLocale(src, localeKey)
		},
	}
}

// asInt accepts the integer shapes a value may take after the JSON round
// trip into the template context.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case time.Weekday:
		return int(n), true
	case time.Month:
		return int(n), true
	}
	return 0, false
}

func resolveLocale(src any, key string) string {
	switch v := src.(type) {
	case string:
		return v
	case map[string]string:
		return v[key]
	case map[string]any:
		if s, ok := v[key].(string); ok {
			return s
		}
	}
	return ""
}
