package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions carry per-request data renderers may use without touching
// the view context itself.
type RenderOptions struct {
	// Template names the template (or theme partial key) to render. JSON
	// renderers ignore it.
	Template string
	// Locale selects translations for labels produced at render time.
	Locale string
	// Translator resolves translation keys. When nil, fallbacks are used.
	Translator Translator
	// OnMissing controls the string returned for a missing translation.
	OnMissing MissingTranslationHandler
	// Theme carries the resolved theme partials, tokens and asset resolver.
	Theme *theme.RendererConfig
	// Hidden is emitted as hidden inputs by form templates (formset
	// management data, CSRF tokens).
	Hidden []HiddenField
}
