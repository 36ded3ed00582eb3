package scaffold_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/inkwell"
	"github.com/eringen/inkwell/config"
	"github.com/eringen/inkwell/scaffold"
)

func TestToTitle(t *testing.T) {
	tests := map[string]string{
		"my-blog": "My Blog",
		"myblog":  "Myblog",
		"a--b":    "A  B",
	}
	for in, want := range tests {
		assert.Equal(t, want, scaffold.ToTitle(in), in)
	}
}

func TestWriteRefusesExistingDir(t *testing.T) {
	_, err := scaffold.Write(t.TempDir(), scaffold.NewData("x", time.Now()))
	assert.ErrorContains(t, err, "already exists")
}

func TestWriteServesStarterSite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-site")
	data := scaffold.NewData("my-site", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC))
	created, err := scaffold.Write(dir, data)
	require.NoError(t, err)
	assert.Contains(t, created, "inkwell.yaml")
	assert.Contains(t, created, ".gitignore")
	assert.Contains(t, created, "public/_posts/hello-world.md")
	assert.Contains(t, created, "public/index.html")

	post, err := os.ReadFile(filepath.Join(dir, "public", "_posts", "hello-world.md"))
	require.NoError(t, err)
	assert.Contains(t, string(post), "date: 2025-03-04")

	cfg, err := config.Load(filepath.Join(dir, "inkwell.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "My Site", cfg.Values["site_name"])
	cfg.ContentDir = filepath.Join(dir, "public")
	cfg.Analytics.Enabled = false

	app := inkwell.New(cfg, inkwell.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, app.Init(context.Background()))
	t.Cleanup(func() { app.Close() })

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	rec := get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Welcome</h1>")

	rec = get("/blog/hello-world")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Hello, world</title>")
	assert.Contains(t, rec.Body.String(), "<strong>My Site</strong>")

	rec = get("/blog")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/blog/hello-world"`)

	rec = get("/about")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<footer>My Site</footer>")

	rec = get("/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>404 Not Found</title>")

	rec = get("/blog/rss.xml")
	assert.Equal(t, http.StatusOK, rec.Code)
}
