package render

import (
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ErrThemeNotFound is returned by StaticSelector for unknown themes.
var ErrThemeNotFound = errors.New("render: theme not found")

// Partial keys used by the built-in view templates. Themes override them
// through manifest Templates entries.
const (
	PartialList     = "views.list"
	PartialCalendar = "views.calendar"
	PartialFormSet  = "views.formset"
	PartialInlines  = "views.inlines"
	PartialSorter   = "views.sorter"
	PartialPager    = "views.pager"
)

// DefaultPartials maps partial keys to the embedded template names.
func DefaultPartials() map[string]string {
	return map[string]string{
		PartialList:     "listviews/list",
		PartialCalendar: "listviews/calendar",
		PartialFormSet:  "listviews/formset",
		PartialInlines:  "listviews/inlines",
		PartialSorter:   "listviews/sorter",
		PartialPager:    "listviews/pager",
	}
}

// ResolveTheme selects a theme and flattens it into a renderer config,
// merging fallbacks under the manifest and variant templates. A nil
// selector yields a config holding only the fallbacks.
func ResolveTheme(selector theme.ThemeSelector, name, variant string, fallbacks map[string]string) (*theme.RendererConfig, error) {
	if selector == nil {
		return &theme.RendererConfig{Partials: copyStringMap(fallbacks)}, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q: %w", name, err)
	}
	return RendererConfig(selection, fallbacks), nil
}

// RendererConfig flattens a selection. Variant entries override manifest
// entries, which override fallbacks. Tokens are also exposed as CSS custom
// properties ("brand" -> "--brand").
func RendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{Partials: copyStringMap(fallbacks)}
	if selection == nil {
		return cfg
	}
	cfg.Theme = selection.Theme
	cfg.Variant = selection.Variant

	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}
	variant, hasVariant := manifest.Variants[selection.Variant]

	cfg.Partials = mergeStringMaps(cfg.Partials, manifest.Templates)
	cfg.Tokens = mergeStringMaps(nil, manifest.Tokens)
	prefix := manifest.Assets.Prefix
	files := mergeStringMaps(nil, manifest.Assets.Files)
	if hasVariant {
		cfg.Partials = mergeStringMaps(cfg.Partials, variant.Templates)
		cfg.Tokens = mergeStringMaps(cfg.Tokens, variant.Tokens)
		files = mergeStringMaps(files, variant.Assets.Files)
		if strings.TrimSpace(variant.Assets.Prefix) != "" {
			prefix = variant.Assets.Prefix
		}
	}

	if len(cfg.Tokens) > 0 {
		cfg.CSSVars = make(map[string]string, len(cfg.Tokens))
		for key, value := range cfg.Tokens {
			cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
		}
	}
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}
	return cfg
}

// PartialName returns the template registered for key, or key itself.
func PartialName(cfg *theme.RendererConfig, key string) string {
	if cfg != nil {
		if name := strings.TrimSpace(cfg.Partials[key]); name != "" {
			return name
		}
	}
	return key
}

// StaticSelector serves a fixed set of manifests.
type StaticSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*StaticSelector)(nil)

// NewStaticSelector builds a selector over manifests keyed by Name.
func NewStaticSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) *StaticSelector {
	s := &StaticSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   defaultTheme,
		defaultVariant: defaultVariant,
	}
	for _, m := range manifests {
		if m != nil && m.Name != "" {
			s.manifests[m.Name] = m
		}
	}
	return s
}

// Select returns the named theme, or the default when name is empty.
func (s *StaticSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.defaultTheme
	}
	if variant == "" {
		variant = s.defaultVariant
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

func mergeStringMaps(base, overrides map[string]string) map[string]string {
	if len(base) == 0 && len(overrides) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func copyStringMap(in map[string]string) map[string]string {
	return mergeStringMaps(in, nil)
}
