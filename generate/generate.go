// Package generate runs the startup generation pass: it loads every feed's
// items, renders content pages, index pages and RSS documents, and collects
// them in an OutputMap.
package generate

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/eringen/inkwell/config"
	"github.com/eringen/inkwell/content"
	"github.com/eringen/inkwell/feed"
	"github.com/eringen/inkwell/fileio"
)

// Renderer is the template capability the pipeline needs. *tmpl.Engine
// implements it.
type Renderer interface {
	Has(name string) bool
	RenderNamed(name string, data any) (string, error)
	RenderInline(text string, data any) (string, error)
}

// PageView is the data a content template is executed with.
type PageView struct {
	content.Item
	Link string
	Feed config.Feed
}

// IndexEntry is one item on an index page. Link is the item's page, or its
// bare identifier when the feed has no content output.
type IndexEntry struct {
	content.Item
	Link string
}

// IndexView is the data an index template is executed with.
type IndexView struct {
	Title       string
	Description string
	Link        string
	FeedURL     string
	Items       []IndexEntry
}

// Generator renders feeds against a content root.
type Generator struct {
	FS     fs.FS
	Engine Renderer
	Loader *content.Loader
	Origin string
	Logger *slog.Logger
}

// Generate renders every feed into one OutputMap and, when sitemapPath is
// set, a sitemap of the extension-less documents. The first failure aborts
// the pass and no map is returned.
func (g *Generator) Generate(ctx context.Context, feeds []config.Feed, sitemapPath string) (*OutputMap, error) {
	start := time.Now()

	m := newOutputMap()
	lastMod := make(map[string]string)
	for i, f := range feeds {
		if err := g.generateFeed(ctx, m, lastMod, f); err != nil {
			return nil, fmt.Errorf("feed %d (%s): %w", i, f.Title, err)
		}
	}

	if sitemapPath != "" {
		doc, err := sitemap(m, g.Origin, lastMod)
		if err != nil {
			return nil, err
		}
		if err := m.put(sitemapPath, doc); err != nil {
			return nil, err
		}
	}

	g.logger().Info("generated site", "feeds", len(feeds), "documents", m.Len(), "duration", time.Since(start))
	return m, nil
}

func (g *Generator) generateFeed(ctx context.Context, m *OutputMap, lastMod map[string]string, f config.Feed) error {
	if err := f.Validate(); err != nil {
		return err
	}
	items, err := g.Loader.Load(ctx, f.SourceDir)
	if err != nil {
		return err
	}
	content.SortByDate(items)

	entries := make([]feed.Entry, len(items))
	for i, it := range items {
		entries[i] = feed.Entry{Item: it}
	}

	if out := f.ContentOutput; out != nil {
		render, err := g.template(ctx, out.Template)
		if err != nil {
			return err
		}
		for i, it := range items {
			key := Key(out.Link + "/" + it.ID)
			link := "/" + key
			doc, err := render(PageView{Item: it, Link: link, Feed: f})
			if err != nil {
				return err
			}
			if err := m.put(key, doc); err != nil {
				return err
			}
			entries[i].Link = link
			lastMod[key] = it.Date.String()
		}
	}

	if out := f.IndexOutput; out != nil {
		render, err := g.template(ctx, out.Template)
		if err != nil {
			return err
		}
		view := IndexView{
			Title:       f.Title,
			Description: f.Description,
			Link:        "/" + Key(out.Link),
			Items:       make([]IndexEntry, len(entries)),
		}
		if f.RSSLink != "" {
			view.FeedURL = "/" + Key(f.RSSLink)
		}
		for i, e := range entries {
			link := e.Link
			if link == "" {
				link = e.Item.ID
			}
			view.Items[i] = IndexEntry{Item: e.Item, Link: link}
		}
		doc, err := render(view)
		if err != nil {
			return err
		}
		if err := m.put(out.Link, doc); err != nil {
			return err
		}
	}

	if f.RSSLink != "" {
		doc, err := feed.Emit(entries, f, g.Origin, *f.IndexOutput, f.RSSLink)
		if err != nil {
			return err
		}
		if err := m.put(f.RSSLink, doc); err != nil {
			return err
		}
	}

	g.logger().Debug("generated feed", "title", f.Title, "items", len(items))
	return nil
}

// template loads name once and returns a function rendering it. Compiled
// templates are executed by name; anything else is read from the content
// root and rendered inline.
func (g *Generator) template(ctx context.Context, name string) (func(data any) (string, error), error) {
	name = Key(name)
	if g.Engine.Has(name) {
		return func(data any) (string, error) {
			return g.Engine.RenderNamed(name, data)
		}, nil
	}
	text, err := fileio.ReadText(ctx, g.FS, name)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	return func(data any) (string, error) {
		return g.Engine.RenderInline(text, data)
	}, nil
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}
