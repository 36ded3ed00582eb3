// Package interpolate expands brace tokens in text files.
//
// A token is the text between a '{' and the next '}'. A token whose key
// starts with '@' is replaced by the expansion of the file it names,
// resolved relative to the directory of the including file. Any other key
// is looked up in the value map. "\{" and "\}" produce literal braces.
//
// Expansion is a single forward pass per file: text spliced in from the
// value map or from an included file is never scanned again.
package interpolate

import (
	"context"
	"io/fs"
	"path"
	"strings"

	"github.com/eringen/inkwell/fileio"
)

// DefaultMaxDepth bounds the include chain when Expander.MaxDepth is zero.
const DefaultMaxDepth = 32

// Expander expands files stored in FS.
type Expander struct {
	FS       fs.FS
	MaxDepth int
}

// New returns an Expander reading from fsys.
func New(fsys fs.FS) *Expander {
	return &Expander{FS: fsys, MaxDepth: DefaultMaxDepth}
}

// Expand is a convenience wrapper around New(fsys).Expand.
func Expand(ctx context.Context, fsys fs.FS, name string, values map[string]string) (string, error) {
	return New(fsys).Expand(ctx, name, values)
}

// Expand reads name from the Expander's FS and returns it with every token
// substituted. values is shared, unchanged, by all nested includes.
func (e *Expander) Expand(ctx context.Context, name string, values map[string]string) (string, error) {
	return e.expand(ctx, path.Clean(name), values, nil)
}

func (e *Expander) maxDepth() int {
	if e.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return e.MaxDepth
}

func (e *Expander) expand(ctx context.Context, name string, values map[string]string, chain []string) (string, error) {
	for _, seen := range chain {
		if seen == name {
			return "", &CyclicInclusionError{Chain: append(append([]string(nil), chain...), name)}
		}
	}
	if len(chain) >= e.maxDepth() {
		return "", &DepthExceededError{Path: name, Limit: e.maxDepth()}
	}

	text, err := fileio.ReadText(ctx, e.FS, name)
	if err != nil {
		return "", err
	}
	chain = append(chain[:len(chain):len(chain)], name)

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '\\' && i+1 < len(text) && (text[i+1] == '{' || text[i+1] == '}'):
			b.WriteByte(text[i+1])
			i += 2
		case c == '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return "", &UnterminatedTokenError{Path: name, Offset: i}
			}
			key := text[i+1 : i+1+end]
			i += end + 2

			if ref, ok := strings.CutPrefix(key, "@"); ok {
				nested := path.Join(path.Dir(name), ref)
				out, err := e.expand(ctx, nested, values, chain)
				if err != nil {
					return "", &NestedExpansionError{Path: nested, Err: err}
				}
				b.WriteString(out)
				continue
			}

			v, ok := values[key]
			if !ok {
				return "", &UnresolvedKeyError{Path: name, Key: key}
			}
			b.WriteString(v)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}
