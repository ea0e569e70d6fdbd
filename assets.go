package listviews

import (
	"embed"
	"io/fs"
)

//go:embed assets/*.css
var embeddedAssets embed.FS

// AssetsFS exposes the stylesheet used by the embedded templates so
// applications can serve it without a build step.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(listviews.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
