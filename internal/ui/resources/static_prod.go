//go:build !dev

package resources

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// Dir returns "" because embedded assets have no directory to watch.
func Dir() string {
	return ""
}

// FS returns the static asset filesystem.
func FS() fs.FS {
	fsys, _ := fs.Sub(staticFS, "static")
	return fsys
}

// Handler returns an HTTP handler for serving static files.
// In production mode, files are embedded in the binary.
func Handler() http.Handler {
	fileServer := http.FileServer(http.FS(FS()))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Cache embedded static assets for 1 year (they never change in prod)
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		http.StripPrefix("/static/", fileServer).ServeHTTP(w, r)
	})
}
