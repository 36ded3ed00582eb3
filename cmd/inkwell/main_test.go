package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := parseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseLevel("loud")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "inkwell dev\n", out)
}

func TestNewThenBuild(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-site")
	out, err := run(t, "new", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "inkwell.yaml")

	// Point the generated config at the absolute content directory.
	cfgPath := filepath.Join(dir, "inkwell.yaml")
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	data = []byte(strings.Replace(string(data), "content_dir: public", "content_dir: "+filepath.Join(dir, "public"), 1))
	require.NoError(t, os.WriteFile(cfgPath, data, 0o644))

	dist := filepath.Join(t.TempDir(), "dist")
	out, err = run(t, "build", "--config", cfgPath, "--out", dist, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote ")

	for _, name := range []string{"index.html", "about/index.html", "blog/index.html", "blog/hello-world/index.html", "blog/rss.xml", "sitemap.xml", "style.css"} {
		assert.FileExists(t, filepath.Join(dist, filepath.FromSlash(name)))
	}
}

func TestNewRefusesExistingDir(t *testing.T) {
	_, err := run(t, "new", t.TempDir())
	assert.ErrorContains(t, err, "already exists")
}

func TestUnknownLogLevel(t *testing.T) {
	_, err := run(t, "build", "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}
