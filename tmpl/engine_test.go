package tmpl

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func site() fstest.MapFS {
	return fstest.MapFS{
		"_layouts/base.html": {Data: []byte(`<html><title>{{block "title" .}}site{{end}}</title>{{block "body" .}}{{end}}</html>`)},
		"index.html":         {Data: []byte(`{{template "_layouts/base.html" .}}{{define "title"}}{{.Title}}{{end}}{{define "body"}}<p>{{.Body}}</p>{{end}}`)},
		"blog/post.html":     {Data: []byte(`{{template "_layouts/base.html" .}}{{define "body"}}<article>{{.Body}}</article>{{end}}`)},
		"style.css":          {Data: []byte(`body{}`)},
		".git/config.html":   {Data: []byte(`{{`)},
	}
}

func TestNewCompilesPagesAndLayouts(t *testing.T) {
	e, err := New(site(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"_layouts/base.html", "blog/post.html", "index.html"}, e.Names())
	assert.True(t, e.Has("index.html"))
	assert.True(t, e.Has("/blog/post.html"))
	assert.False(t, e.Has("style.css"))
}

func TestPagesDoNotShareBlocks(t *testing.T) {
	e, err := New(site(), Options{})
	require.NoError(t, err)

	data := map[string]string{"Title": "Home", "Body": "<b>hi</b>"}
	out, err := e.RenderNamed("index.html", data)
	require.NoError(t, err)
	assert.Equal(t, `<html><title>Home</title><p>&lt;b&gt;hi&lt;/b&gt;</p></html>`, out)

	out, err = e.RenderNamed("blog/post.html", data)
	require.NoError(t, err)
	assert.Equal(t, `<html><title>site</title><article>&lt;b&gt;hi&lt;/b&gt;</article></html>`, out)
}

func TestRenderInlineSeesLayouts(t *testing.T) {
	e, err := New(site(), Options{})
	require.NoError(t, err)

	out, err := e.RenderInline(`{{template "_layouts/base.html" .}}{{define "body"}}{{upper .}}{{end}}`, "x")
	require.NoError(t, err)
	assert.Equal(t, `<html><title>site</title>X</html>`, out)
}

func TestRenderErrors(t *testing.T) {
	e, err := New(site(), Options{})
	require.NoError(t, err)

	_, err = e.RenderNamed("missing.html", nil)
	var te *TemplateError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "missing.html", te.Name)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.RenderInline(`{{.Nope.Deeper}}`, struct{}{})
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "inline", te.Name)

	_, err = e.RenderInline(`{{if}}`, nil)
	require.Error(t, err)
}

func TestNewRejectsBrokenTemplate(t *testing.T) {
	fsys := site()
	fsys["broken.html"] = &fstest.MapFile{Data: []byte(`{{range .}}`)}

	_, err := New(fsys, Options{})
	var te *TemplateError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "broken.html", te.Name)
}

func TestCustomExtension(t *testing.T) {
	fsys := fstest.MapFS{
		"page.rhc":   {Data: []byte(`rhc {{.}}`)},
		"page.html":  {Data: []byte(`html`)},
		"_l/nav.rhc": {Data: []byte(`nav`)},
	}
	e, err := New(fsys, Options{Ext: "rhc", LayoutsDir: "_l"})
	require.NoError(t, err)
	assert.Equal(t, []string{"_l/nav.rhc", "page.rhc"}, e.Names())

	out, err := e.RenderNamed("page.rhc", 1)
	require.NoError(t, err)
	assert.Equal(t, "rhc 1", out)
}

func TestFuncs(t *testing.T) {
	e, err := New(fstest.MapFS{}, Options{})
	require.NoError(t, err)

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	data := map[string]any{
		"Tags": []string{"go", "web"},
		"MD":   "*hi*",
		"Raw":  "<i>raw</i>",
		"Day":  day,
	}
	tests := []struct {
		text string
		want string
	}{
		{`{{join .Tags ", "}}`, "go, web"},
		{`{{lower "ABC"}}`, "abc"},
		{`{{markdown .MD}}`, "<p><em>hi</em></p>\n"},
		{`{{safeHTML .Raw}}`, "<i>raw</i>"},
		{`{{rfc822 .Day}}`, "Mon, 15 Jan 2024 00:00:00 +0000"},
	}
	for _, tt := range tests {
		got, err := e.RenderInline(tt.text, data)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}
