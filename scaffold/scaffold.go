// Package scaffold provides the embedded starter site written by
// `inkwell new`.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

// Templates contains all scaffold files. Files with a .tmpl suffix use Go
// text/template syntax and are executed with Data; every other file is
// copied as is, since site templates carry their own template syntax.
//
//go:embed all:templates
var Templates embed.FS

const root = "templates"

// Data holds the template variables passed to every .tmpl file.
type Data struct {
	ProjectName string
	SiteName    string
	Date        string
}

// NewData derives the template variables for a project directory name.
func NewData(name string, now time.Time) Data {
	return Data{
		ProjectName: name,
		SiteName:    ToTitle(name),
		Date:        now.Format("2006-01-02"),
	}
}

// Write creates the starter site under dir, which must not exist yet. It
// returns the created files relative to dir.
func Write(dir string, data Data) ([]string, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("directory %q already exists", dir)
	}

	var created []string
	err := fs.WalkDir(Templates, root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(name, root), "/")
		outPath := filepath.Join(dir, filepath.FromSlash(rel))
		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		// Dotfiles are stored without their dot so that embed keeps them.
		if base := filepath.Base(outPath); strings.HasPrefix(base, "dot") {
			outPath = filepath.Join(filepath.Dir(outPath), "."+strings.TrimPrefix(base, "dot"))
		}

		src, err := Templates.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		if !strings.HasSuffix(outPath, ".tmpl") {
			if err := os.WriteFile(outPath, src, 0o644); err != nil {
				return err
			}
			created = append(created, relative(dir, outPath))
			return nil
		}

		outPath = strings.TrimSuffix(outPath, ".tmpl")
		tmpl, err := template.New(filepath.Base(name)).Parse(string(src))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", name, err)
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()
		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", name, err)
		}
		created = append(created, relative(dir, outPath))
		return nil
	})
	return created, err
}

func relative(dir, p string) string {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}

// ToTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-blog" -> "My Blog", "myblog" -> "Myblog"
func ToTitle(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
