package main

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-listviews/pkg/render"
)

// demoManifest is the built-in theme: a light and a dark variant over the
// embedded templates.
func demoManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "default",
		Version: "1.0.0",
		Tokens: map[string]string{
			"accent": "#2563eb",
			"border": "#e5e7eb",
		},
		Templates: render.DefaultPartials(),
		Assets: theme.Assets{
			Prefix: "/assets",
			Files:  map[string]string{"stylesheet": "listviews.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"accent": "#60a5fa",
					"border": "#374151",
				},
			},
		},
	}
}

func demoSelector(name, variant string) theme.ThemeSelector {
	return render.NewStaticSelector(name, variant, demoManifest())
}
