// Package content loads content items: one file per item, a YAML front
// matter block between "---" lines followed by an HTML or Markdown body.
package content

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/eringen/inkwell/fileio"
	"github.com/eringen/inkwell/markdown"
)

var (
	ErrMissingTitle       = errors.New("front matter has no title")
	ErrMissingDate        = errors.New("front matter has no date")
	ErrUnknownContentType = errors.New("unknown content_type")
)

// MalformedError reports a content file that cannot be turned into an Item.
type MalformedError struct {
	Path string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed content file %s: %v", e.Path, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// The separator must sit alone on its own line, so "---" inside the body
// never splits the file.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// Loader reads content directories from FS, the content root.
type Loader struct {
	FS      fs.FS
	Logger  *slog.Logger
	Convert func(src []byte) (string, error)
}

// NewLoader returns a Loader converting Markdown with the markdown package.
func NewLoader(fsys fs.FS, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{FS: fsys, Logger: logger, Convert: markdown.Convert}
}

// Load parses every regular file directly inside dir, in file-name order.
// The first bad file aborts the whole load. A missing dir is an empty
// collection.
func (l *Loader) Load(ctx context.Context, dir string) ([]Item, error) {
	dir = path.Clean(dir)
	entries, err := fs.ReadDir(l.FS, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.Logger.Warn("content directory does not exist", "dir", dir)
			return nil, nil
		}
		return nil, &fileio.IOError{Path: dir, Err: err}
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		item, err := l.loadFile(ctx, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (l *Loader) loadFile(ctx context.Context, name string) (Item, error) {
	text, err := fileio.ReadText(ctx, l.FS, name)
	if err != nil {
		return Item{}, err
	}

	var meta Metadata
	body, err := frontmatter.MustParse(strings.NewReader(text), &meta, yamlFormat)
	if err != nil {
		return Item{}, &MalformedError{Path: name, Err: err}
	}
	if meta.Title == "" {
		return Item{}, &MalformedError{Path: name, Err: ErrMissingTitle}
	}
	if meta.Date.IsZero() {
		return Item{}, &MalformedError{Path: name, Err: ErrMissingDate}
	}

	var html string
	switch meta.ContentType {
	case "", TypeHTML:
		meta.ContentType = TypeHTML
		html = string(body)
	case TypeMarkdown:
		html, err = l.Convert(body)
		if err != nil {
			return Item{}, &MalformedError{Path: name, Err: fmt.Errorf("convert markdown: %w", err)}
		}
	default:
		return Item{}, &MalformedError{Path: name, Err: fmt.Errorf("%w %q", ErrUnknownContentType, meta.ContentType)}
	}

	if meta.Image != nil {
		l.probeImage(ctx, meta.Image)
	}

	base := path.Base(name)
	return Item{
		ID:       strings.TrimSuffix(base, path.Ext(base)),
		Metadata: meta,
		Content:  template.HTML(html),
		Source:   name,
	}, nil
}

// SortByDate orders items newest first. Items sharing a date keep their
// load order.
func SortByDate(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date.Time)
	})
}
