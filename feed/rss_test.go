package feed

import (
	"fmt"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/inkwell/config"
	"github.com/eringen/inkwell/content"
)

func item(id, date, body string) content.Item {
	d, _ := time.Parse(content.DateLayout, date)
	return content.Item{
		ID:       id,
		Metadata: content.Metadata{Title: "Title " + id, Date: content.Date{Time: d}},
		Content:  template.HTML("<p>" + body + "</p>"),
	}
}

var blog = config.Feed{
	Title:       "Blog",
	Description: "Posts & notes",
	Link:        "blog",
}

func TestEmitWithContentPages(t *testing.T) {
	entries := []Entry{
		{Item: item("b", "2024-02-01", "two"), Link: "/blog/b"},
		{Item: item("a", "2024-01-15", "one"), Link: "/blog/a"},
	}
	out, err := Emit(entries, blog, "https://example.com", config.Output{Link: "blog"}, "blog/rss.xml")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`+"\n"+`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`))
	assert.Contains(t, out, "\n  <channel>\n    <title>Blog</title>")
	assert.Contains(t, out, `<atom:link href="https://example.com/blog/rss.xml" rel="self" type="application/rss+xml"></atom:link>`)
	assert.Contains(t, out, `<guid isPermaLink="true">https://example.com/blog/b</guid>`)

	parsed, err := gofeed.NewParser().ParseString(out)
	require.NoError(t, err)
	assert.Equal(t, "Blog", parsed.Title)
	assert.Equal(t, "Posts & notes", parsed.Description)
	assert.Equal(t, "https://example.com/blog", parsed.Link)
	require.Len(t, parsed.Items, 2)

	assert.Equal(t, "Title b", parsed.Items[0].Title)
	assert.Equal(t, "https://example.com/blog/b", parsed.Items[0].Link)
	assert.Equal(t, "https://example.com/blog/b", parsed.Items[0].GUID)
	assert.Equal(t, "<p>two</p>", parsed.Items[0].Description)
	assert.Equal(t, "Thu, 01 Feb 2024 00:00:00 +0000", parsed.Items[0].Published)
	require.NotNil(t, parsed.Items[1].PublishedParsed)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), parsed.Items[1].PublishedParsed.UTC())
}

func TestEmitWithoutContentPagesLinksIntoIndex(t *testing.T) {
	entries := []Entry{{Item: item("note", "2024-03-03", "inline")}}
	out, err := Emit(entries, blog, "https://example.com/", config.Output{Link: "/notes"}, "notes.xml")
	require.NoError(t, err)

	assert.Contains(t, out, `<guid isPermaLink="false">note</guid>`)

	parsed, err := gofeed.NewParser().ParseString(out)
	require.NoError(t, err)
	require.Len(t, parsed.Items, 1)
	assert.Equal(t, "https://example.com/notes#note", parsed.Items[0].Link)
	assert.Equal(t, "note", parsed.Items[0].GUID)
}

func TestEmitItemCount(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		entries := make([]Entry, n)
		for i := range entries {
			id := fmt.Sprintf("p%d", i)
			entries[i] = Entry{Item: item(id, "2024-01-01", id), Link: "/posts/" + id}
		}
		out, err := Emit(entries, blog, "http://localhost:8000", config.Output{Link: ""}, "rss.xml")
		require.NoError(t, err)
		assert.Equal(t, n, strings.Count(out, "<item>"), "n=%d", n)

		parsed, err := gofeed.NewParser().ParseString(out)
		require.NoError(t, err)
		for i, it := range parsed.Items {
			assert.Equal(t, fmt.Sprintf("http://localhost:8000/posts/p%d", i), it.Link)
		}
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		origin, path, want string
	}{
		{"https://example.com", "blog/a", "https://example.com/blog/a"},
		{"https://example.com/", "/blog/a", "https://example.com/blog/a"},
		{"https://example.com", "", "https://example.com/"},
		{"https://example.com", "https://other.org/x", "https://other.org/x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinURL(tt.origin, tt.path))
	}
}
