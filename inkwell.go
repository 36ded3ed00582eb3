// Package inkwell serves a content site built from templates, interpolated
// pages and feeds of front-matter items.
//
// At startup every feed is rendered once into an in-memory output map. A
// single catch-all route then resolves each request against that map and
// the content root, and an error handler renders the configured error page.
package inkwell

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/inkwell/analytics"
	"github.com/eringen/inkwell/config"
	"github.com/eringen/inkwell/content"
	"github.com/eringen/inkwell/generate"
	"github.com/eringen/inkwell/resolve"
	"github.com/eringen/inkwell/tmpl"
)

// App is the central inkwell application. It wires together the template
// engine, the generated outputs, the resolver, analytics and the HTTP
// server.
type App struct {
	Config   *config.Site
	Echo     *echo.Echo
	Engine   *tmpl.Engine
	Outputs  *generate.OutputMap
	Resolver *resolve.Resolver
	Logger   *slog.Logger

	contentFS      fs.FS
	analyticsStore *analytics.Store
	stopCleanup    func()
	customRoutes   []func(*App)
}

// New creates an App for cfg. Call Init before serving.
func New(cfg *config.Site, opts ...Option) *App {
	cfg.SetDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config: cfg,
		Echo:   e,
		Logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.contentFS == nil {
		a.contentFS = cfg.ContentFS()
	}
	return a
}

// Generate compiles the templates and renders every feed. Any failure
// aborts; nothing is served from a partial generation.
func (a *App) Generate(ctx context.Context) error {
	engine, err := tmpl.New(a.contentFS, tmpl.Options{
		Ext:        a.Config.ContentExt,
		LayoutsDir: a.Config.LayoutsDir,
	})
	if err != nil {
		return fmt.Errorf("inkwell: compile templates: %w", err)
	}
	a.Engine = engine

	gen := &generate.Generator{
		FS:     a.contentFS,
		Engine: engine,
		Loader: content.NewLoader(a.contentFS, a.Logger),
		Origin: a.Config.ServerName,
		Logger: a.Logger,
	}
	outputs, err := gen.Generate(ctx, a.Config.Feeds, a.Config.Sitemap)
	if err != nil {
		return fmt.Errorf("inkwell: generate: %w", err)
	}
	a.Outputs = outputs

	a.Resolver = &resolve.Resolver{
		Root:       a.Config.ContentDir,
		FS:         a.contentFS,
		Outputs:    outputs,
		Engine:     engine,
		ContentExt: a.Config.ContentExt,
		PageExt:    a.Config.PageExt,
		IndexFiles: a.Config.IndexFiles,
		Ignored:    a.Config.IgnoredPaths,
		Values:     a.Config.Values,
	}
	return nil
}

// Init runs Generate, opens analytics when enabled, and registers
// middleware and routes.
func (a *App) Init(ctx context.Context) error {
	if err := a.Generate(ctx); err != nil {
		return err
	}

	if a.Config.Analytics.Enabled {
		store, err := analytics.NewStore(a.Config.Analytics.DatabasePath)
		if err != nil {
			return fmt.Errorf("inkwell: init analytics: %w", err)
		}
		a.analyticsStore = store
		a.stopCleanup = store.StartCleanupScheduler(a.Config.Analytics.RetentionDays, 24*time.Hour, a.Logger)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.Logger.Info("site ready",
		"content_dir", a.Config.ContentDir,
		"templates", len(a.Engine.Names()),
		"documents", a.Outputs.Len(),
		"analytics", a.analyticsStore != nil)
	return nil
}

func (a *App) setupRoutes() {
	a.Echo.GET("/*", a.handleRequest)
	a.Echo.HEAD("/*", a.handleRequest)
}

// Handler returns the HTTP handler of an initialized App.
func (a *App) Handler() http.Handler {
	return a.Echo
}

// Start listens on the configured address. It returns nil after Shutdown.
func (a *App) Start() error {
	a.Logger.Info("listening", "addr", a.Config.Addr, "origin", a.Config.ServerName)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.stopCleanup != nil {
		a.stopCleanup()
		a.stopCleanup = nil
	}
	if a.analyticsStore != nil {
		err := a.analyticsStore.Close()
		a.analyticsStore = nil
		return err
	}
	return nil
}
