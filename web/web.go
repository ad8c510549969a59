// Package web empaqueta los archivos estáticos del cliente web.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

// Static devuelve el sistema de archivos del cliente web, con index.html
// como página por defecto.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
