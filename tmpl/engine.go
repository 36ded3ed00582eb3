// Package tmpl compiles the templates of a content root once and renders
// them by name or from ad hoc template text.
//
// Every file with the configured extension becomes a named template keyed
// by its slash path relative to the root ("blog/index.html"). Files below
// the layouts directory are parsed into every page's template set, so a
// page can {{template "_layouts/base.html" .}} and fill in blocks that the
// layout declares.
package tmpl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/eringen/inkwell/fileio"
)

// ErrNotFound is wrapped by TemplateError when no template has the name.
var ErrNotFound = errors.New("template not found")

// TemplateError reports a failure to compile or execute a template.
type TemplateError struct {
	Name string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %v", e.Name, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Options controls which files are compiled.
type Options struct {
	Ext        string // extension without the dot, default "html"
	LayoutsDir string // shared templates, default "_layouts"
	Funcs      template.FuncMap
}

// Engine holds the compiled template sets. It is read-only after New and
// safe for concurrent use.
type Engine struct {
	opts   Options
	funcs  template.FuncMap
	shared *template.Template
	pages  map[string]*template.Template
}

// New walks fsys and compiles every template file. Any parse error aborts.
func New(fsys fs.FS, opts Options) (*Engine, error) {
	if opts.Ext == "" {
		opts.Ext = "html"
	}
	if opts.LayoutsDir == "" {
		opts.LayoutsDir = "_layouts"
	}
	e := &Engine{
		opts:  opts,
		funcs: defaultFuncs(),
		pages: make(map[string]*template.Template),
	}
	for k, fn := range opts.Funcs {
		e.funcs[k] = fn
	}

	var layouts, pages []string
	suffix := "." + opts.Ext
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(p, suffix) {
			return nil
		}
		if strings.HasPrefix(p, opts.LayoutsDir+"/") {
			layouts = append(layouts, p)
		} else {
			pages = append(pages, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan templates: %w", err)
	}

	ctx := context.Background()
	e.shared = template.New("").Funcs(e.funcs)
	for _, name := range layouts {
		text, err := fileio.ReadText(ctx, fsys, name)
		if err != nil {
			return nil, &TemplateError{Name: name, Err: err}
		}
		if _, err := e.shared.New(name).Parse(text); err != nil {
			return nil, &TemplateError{Name: name, Err: err}
		}
	}
	// The shared set is only ever cloned; executing it would make later
	// clones fail.
	for _, name := range layouts {
		set, err := e.shared.Clone()
		if err != nil {
			return nil, &TemplateError{Name: name, Err: err}
		}
		e.pages[name] = set
	}

	for _, name := range pages {
		text, err := fileio.ReadText(ctx, fsys, name)
		if err != nil {
			return nil, &TemplateError{Name: name, Err: err}
		}
		t, err := e.parse(name, text)
		if err != nil {
			return nil, err
		}
		e.pages[name] = t
	}
	return e, nil
}

func (e *Engine) parse(name, text string) (*template.Template, error) {
	set, err := e.shared.Clone()
	if err != nil {
		return nil, &TemplateError{Name: name, Err: err}
	}
	if _, err := set.New(name).Parse(text); err != nil {
		return nil, &TemplateError{Name: name, Err: err}
	}
	return set, nil
}

// Has reports whether a template with name was compiled.
func (e *Engine) Has(name string) bool {
	_, ok := e.pages[normalize(name)]
	return ok
}

// Names returns the compiled template names in lexical order.
func (e *Engine) Names() []string {
	names := make([]string, 0, len(e.pages))
	for name := range e.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderNamed executes the precompiled template name against data.
func (e *Engine) RenderNamed(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.execute(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderInline parses text with the shared layouts in scope and executes it
// against data.
func (e *Engine) RenderInline(text string, data any) (string, error) {
	const name = "inline"
	t, err := e.parse(name, text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", &TemplateError{Name: name, Err: err}
	}
	return buf.String(), nil
}

func (e *Engine) execute(w io.Writer, name string, data any) error {
	name = normalize(name)
	t, ok := e.pages[name]
	if !ok {
		return &TemplateError{Name: name, Err: ErrNotFound}
	}
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		return &TemplateError{Name: name, Err: err}
	}
	return nil
}

func normalize(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}
