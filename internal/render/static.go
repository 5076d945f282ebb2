package render

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

// StaticFS serves the stylesheet referenced by the page templates.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
