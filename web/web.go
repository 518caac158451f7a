// Package web embeds the browser front-end served at the site root.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var content embed.FS

// Static returns the front-end assets rooted at the static directory
func Static() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		// The embed pattern guarantees the directory exists
		panic(err)
	}
	return sub
}
