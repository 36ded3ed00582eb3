package tmpl

import (
	"html/template"
	"strings"

	"github.com/eringen/inkwell/markdown"
)

// RFC822 is the date layout used by rfc822 and by RSS pubDate.
const RFC822 = "Mon, 02 Jan 2006 15:04:05 -0700"

type formatter interface {
	Format(layout string) string
}

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": func(s string) (template.HTML, error) {
			out, err := markdown.Convert([]byte(s))
			return template.HTML(out), err
		},
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
		"join":     func(elems []string, sep string) string { return strings.Join(elems, sep) },
		"lower":    strings.ToLower,
		"upper":    strings.ToUpper,
		"rfc822":   func(t formatter) string { return t.Format(RFC822) },
	}
}
