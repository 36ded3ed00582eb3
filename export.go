package inkwell

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/eringen/inkwell/resolve"
)

// Export writes everything the site serves into dir: generated documents,
// rendered templates, expanded pages and static files. Extension-less
// paths become <path>/index.html. Generate must have run. Export returns
// the number of files written.
func (a *App) Export(ctx context.Context, dir string) (int, error) {
	if a.Resolver == nil {
		return 0, fmt.Errorf("inkwell: export before generate")
	}
	candidates, err := a.exportCandidates()
	if err != nil {
		return 0, err
	}

	written := make(map[string]string)
	for _, p := range candidates {
		if err := ctx.Err(); err != nil {
			return len(written), err
		}
		out, err := a.Resolver.Resolve(ctx, "/"+p)
		if err != nil {
			return len(written), fmt.Errorf("inkwell: export /%s: %w", p, err)
		}

		var dest string
		switch o := out.(type) {
		case resolve.Generated:
			dest = exportName(p)
			if prev, ok := written[dest]; ok {
				a.Logger.Warn("export path already written", "path", "/"+p, "file", dest, "by", "/"+prev)
				continue
			}
			err = writeFile(filepath.Join(dir, filepath.FromSlash(dest)), strings.NewReader(o.Body))
		case resolve.StaticFile:
			dest = p
			if _, ok := written[dest]; ok {
				continue
			}
			err = copyFile(filepath.Join(dir, filepath.FromSlash(dest)), o.Path)
		default:
			continue
		}
		if err != nil {
			return len(written), fmt.Errorf("inkwell: export /%s: %w", p, err)
		}
		written[dest] = p
	}

	a.Logger.Info("exported site", "dir", dir, "files", len(written))
	return len(written), nil
}

// exportCandidates lists the request paths worth resolving: every
// generated document followed by every source and static file of the
// content root. Names starting with "." or "_" are skipped, as are
// ignored paths.
func (a *App) exportCandidates() ([]string, error) {
	paths := a.Outputs.Paths()
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		seen[p] = true
	}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	contentExt := "." + a.Config.ContentExt
	pageExt := "." + a.Config.PageExt
	err := fs.WalkDir(a.contentFS, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if name == "." {
			return nil
		}
		if base := d.Name(); strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		ext := path.Ext(name)
		if ext != contentExt && ext != pageExt {
			add(name)
			return nil
		}
		stem := strings.TrimSuffix(name, ext)
		if slices.Contains(a.Config.IndexFiles, path.Base(stem)) {
			if dir := path.Dir(stem); dir != "." {
				add(dir)
			} else {
				add("")
			}
			return nil
		}
		add(stem)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("inkwell: walk content: %w", err)
	}
	return paths, nil
}

func exportName(p string) string {
	if path.Ext(p) != "" {
		return p
	}
	return path.Join(p, "index.html")
}

func writeFile(dest string, body *strings.Reader) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(dest, body)
}

func copyFile(dest, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(dest, f)
}
