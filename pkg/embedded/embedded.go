// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
	"io/fs"
)

// Files contains the dashboard under frontend/dist, served directly via HTTP.
//
//go:embed frontend/dist
var Files embed.FS

// Frontend returns the dashboard file tree rooted at frontend/dist.
func Frontend() (fs.FS, error) {
	return fs.Sub(Files, "frontend/dist")
}
