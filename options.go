package inkwell

import (
	"io/fs"
	"log/slog"
)

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the logger used by the app and everything it creates.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.Logger = logger
		}
	}
}

// WithContentFS reads templates, items and pages from fsys instead of the
// configured content directory. Static files are still served from disk.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the catch-all route is registered; more specific
// routes take precedence over it.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
