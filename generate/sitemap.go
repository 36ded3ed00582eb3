package generate

import (
	"encoding/xml"
	"fmt"
	"path"

	"github.com/eringen/inkwell/feed"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// sitemap lists every extension-less document of m. lastMod holds the
// item dates of content pages, keyed like m.
func sitemap(m *OutputMap, origin string, lastMod map[string]string) (string, error) {
	var urls []sitemapURL
	for _, p := range m.Paths() {
		if path.Ext(p) != "" {
			continue
		}
		urls = append(urls, sitemapURL{
			Loc:     feed.JoinURL(origin, p),
			LastMod: lastMod[p],
		})
	}
	set := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode sitemap: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}
