// Package resolve maps a request path to what should be served for it: a
// generated document, a file from the content root, a redirect to the
// canonical path, or nothing.
package resolve

import (
	"context"
	"io/fs"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/eringen/inkwell/interpolate"
)

// Outcome is the result of resolving a path. It is one of Generated,
// StaticFile, Redirect or NotFound.
type Outcome interface {
	outcome()
}

// Generated is a document to send as is.
type Generated struct {
	Body string
	MIME string
}

// StaticFile is a file on disk to send.
type StaticFile struct {
	Path string
}

// Redirect points to the canonical location of the request.
type Redirect struct {
	Location string
}

// NotFound means nothing is served at the path.
type NotFound struct{}

func (Generated) outcome()  {}
func (StaticFile) outcome() {}
func (Redirect) outcome()   {}
func (NotFound) outcome()   {}

// Lookup finds documents generated at startup. *generate.OutputMap
// implements it.
type Lookup interface {
	Get(path string) (string, bool)
}

// Renderer renders precompiled templates. *tmpl.Engine implements it.
type Renderer interface {
	Has(name string) bool
	RenderNamed(name string, data any) (string, error)
}

const htmlMIME = "text/html; charset=utf-8"

// Resolver holds everything resolution reads. It is not modified by
// Resolve and may be shared by concurrent requests.
type Resolver struct {
	Root    string // content root on disk
	FS      fs.FS  // defaults to os.DirFS(Root)
	Outputs Lookup
	Engine  Renderer

	ContentExt string   // template sources, rendered with an empty context
	PageExt    string   // interpolated sources, expanded with Values
	IndexFiles []string // probed in order inside directories
	Ignored    []string // path prefixes that are never served
	Values     map[string]string
}

func (r *Resolver) fsys() fs.FS {
	if r.FS != nil {
		return r.FS
	}
	return os.DirFS(r.Root)
}

// Clean normalizes a request path to a slash path relative to the content
// root: NFC, cleaned, never above the root. The root is "".
func Clean(requestPath string) string {
	p := norm.NFC.String(requestPath)
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// Resolve decides what to serve for requestPath. The first matching rule
// wins: ignored prefixes, generated documents, source extensions, static
// files, then sources and directory indexes for extension-less paths.
// A non-nil error is a failure to render an existing source.
func (r *Resolver) Resolve(ctx context.Context, requestPath string) (Outcome, error) {
	p := Clean(requestPath)

	if r.ignored(p) {
		return NotFound{}, nil
	}

	if r.Outputs != nil {
		if body, ok := r.Outputs.Get(p); ok {
			return Generated{Body: body, MIME: mimeType(p)}, nil
		}
	}

	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext != "" {
		if ext == r.ContentExt || ext == r.PageExt {
			return Redirect{Location: canonical(strings.TrimSuffix(p, "."+ext))}, nil
		}
		if info, err := fs.Stat(r.fsys(), p); err == nil && info.Mode().IsRegular() {
			return StaticFile{Path: filepath.Join(r.Root, filepath.FromSlash(p))}, nil
		}
		return NotFound{}, nil
	}

	if p != "" {
		if out, ok, err := r.source(ctx, p); ok || err != nil {
			return out, err
		}
	}

	dir := p
	if dir == "" {
		dir = "."
	}
	if info, err := fs.Stat(r.fsys(), dir); err != nil || !info.IsDir() {
		return NotFound{}, nil
	}
	for _, name := range r.IndexFiles {
		if out, ok, err := r.source(ctx, path.Join(p, name)); ok || err != nil {
			return out, err
		}
	}
	return NotFound{}, nil
}

// source renders p.<ContentExt> or expands p.<PageExt>, whichever exists
// first. ok is false when neither does.
func (r *Resolver) source(ctx context.Context, p string) (Outcome, bool, error) {
	if name := p + "." + r.ContentExt; r.Engine != nil && r.Engine.Has(name) {
		body, err := r.Engine.RenderNamed(name, map[string]any{})
		if err != nil {
			return nil, true, err
		}
		return Generated{Body: body, MIME: htmlMIME}, true, nil
	}
	if r.PageExt == "" {
		return nil, false, nil
	}
	name := p + "." + r.PageExt
	if info, err := fs.Stat(r.fsys(), name); err != nil || !info.Mode().IsRegular() {
		return nil, false, nil
	}
	body, err := interpolate.New(r.fsys()).Expand(ctx, name, r.Values)
	if err != nil {
		return nil, true, err
	}
	return Generated{Body: body, MIME: htmlMIME}, true, nil
}

// canonical returns the percent-encoded absolute path of p. Backslashes and
// control characters are escaped so the location never leaves the site.
func canonical(p string) string {
	return (&url.URL{Path: "/" + p}).EscapedPath()
}

func (r *Resolver) ignored(p string) bool {
	for _, prefix := range r.Ignored {
		prefix = strings.TrimPrefix(prefix, "/")
		if prefix != "" && strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func mimeType(p string) string {
	ext := path.Ext(p)
	if ext == "" {
		return htmlMIME
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
