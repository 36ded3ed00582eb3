// Package feed serializes a sorted item collection as an RSS 2.0 document.
package feed

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/eringen/inkwell/config"
	"github.com/eringen/inkwell/content"
)

const atomNS = "http://www.w3.org/2005/Atom"

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Self        atomLink  `xml:"atom:link"`
	Items       []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	GUID        rssGUID `xml:"guid"`
	PubDate     string  `xml:"pubDate"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Entry is one item of the feed. Link is the logical path of the item's
// own page, or empty when the item only appears on the index page.
type Entry struct {
	Item content.Item
	Link string
}

// PubDate formats d as an RFC 822 date at midnight UTC.
func PubDate(d content.Date) string {
	return d.Format("Mon, 02 Jan 2006") + " 00:00:00 +0000"
}

// Emit renders entries, already sorted, as an RSS document. Item links are
// absolute: the item's own page when it has one, otherwise the index page
// with the identifier as fragment.
func Emit(entries []Entry, f config.Feed, origin string, index config.Output, feedLink string) (string, error) {
	indexURL := JoinURL(origin, index.Link)

	items := make([]rssItem, 0, len(entries))
	for _, e := range entries {
		it := rssItem{
			Title:       e.Item.Title,
			Description: string(e.Item.Content),
			PubDate:     PubDate(e.Item.Date),
		}
		if e.Link != "" {
			it.Link = JoinURL(origin, e.Link)
			it.GUID = rssGUID{IsPermaLink: true, Value: it.Link}
		} else {
			it.Link = indexURL + "#" + e.Item.ID
			it.GUID = rssGUID{IsPermaLink: false, Value: e.Item.ID}
		}
		items = append(items, it)
	}

	doc := rssXML{
		Version: "2.0",
		Atom:    atomNS,
		Channel: rssChannel{
			Title:       f.Title,
			Link:        JoinURL(origin, f.Link),
			Description: f.Description,
			Self: atomLink{
				Href: JoinURL(origin, feedLink),
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Items: items,
		},
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode rss for %q: %w", f.Title, err)
	}
	return xml.Header + string(out) + "\n", nil
}

// JoinURL joins origin with a logical path. Absolute URLs are returned
// unchanged.
func JoinURL(origin, p string) string {
	if strings.Contains(p, "://") {
		return p
	}
	return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(p, "/")
}
