package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inkwell.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
server_name: "https://example.com/"
content_dir: site
ignored_paths: ["_posts", "_layouts"]
error_page: error.rhc
values:
  owner: Jane
feeds:
  - title: Blog
    description: Notes
    link: /blog
    source_dir: _posts
    content_output:
      template: _templates/post.html
      link: blog
    index_output:
      template: _templates/blog.html
      link: blog
    rss_link: blog/feed.xml
  - title: Links
    link: /links
    source_dir: _links
    index_output:
      template: _templates/links.html
      link: links
`)

	site, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", site.ServerName)
	assert.Equal(t, "site", site.ContentDir)
	assert.Equal(t, "html", site.ContentExt)
	assert.Equal(t, "rhc", site.PageExt)
	assert.Equal(t, []string{"index", "home"}, site.IndexFiles)
	assert.Equal(t, []string{"_posts", "_layouts"}, site.IgnoredPaths)
	assert.Equal(t, "error.rhc", site.ErrorPage)
	assert.Equal(t, "Jane", site.Values["owner"])
	assert.Equal(t, 90, site.Analytics.RetentionDays)

	require.Len(t, site.Feeds, 2)
	blog := site.Feeds[0]
	assert.Equal(t, "Blog", blog.Title)
	require.NotNil(t, blog.ContentOutput)
	assert.Equal(t, "blog", blog.ContentOutput.Link)
	require.NotNil(t, blog.IndexOutput)
	assert.Equal(t, "blog/feed.xml", blog.RSSLink)

	links := site.Feeds[1]
	assert.Nil(t, links.ContentOutput)
	assert.Empty(t, links.RSSLink)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "addr: \":8000\"\n")
	t.Setenv("INKWELL_ADDR", ":9999")
	t.Setenv("INKWELL_ANALYTICS_ENABLED", "true")

	site, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", site.Addr)
	assert.True(t, site.Analytics.Enabled)
}

func TestLoadRetentionDays(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"0", 90},
		{"30", 30},
	}
	for _, tt := range tests {
		site, err := Load(writeConfig(t, "analytics:\n  retention_days: "+tt.value+"\n"))
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, site.Analytics.RetentionDays, tt.value)
		assert.NoError(t, site.Validate(), tt.value)
	}

	_, err := Load(writeConfig(t, "analytics:\n  retention_days: -1\n"))
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "analytics.retention_days", ce.Field)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsRSSWithoutIndex(t *testing.T) {
	path := writeConfig(t, `
feeds:
  - title: Blog
    link: /blog
    source_dir: _posts
    rss_link: feed.xml
`)
	_, err := Load(path)

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "feeds[0].rss_link", ce.Field)
}

func TestValidate(t *testing.T) {
	base := func() Site {
		s := Site{}
		s.SetDefaults()
		return s
	}
	tests := []struct {
		name  string
		edit  func(*Site)
		field string
	}{
		{"ok", func(*Site) {}, ""},
		{"dotted ext", func(s *Site) { s.ContentExt = ".html" }, "content_ext"},
		{"page ext equals content ext", func(s *Site) { s.PageExt = "html" }, "page_ext"},
		{"index with slash", func(s *Site) { s.IndexFiles = []string{"a/b"} }, "index_files[0]"},
		{"negative retention", func(s *Site) { s.Analytics.RetentionDays = -1 }, "analytics.retention_days"},
		{"feed without title", func(s *Site) {
			s.Feeds = []Feed{{Link: "/x", SourceDir: "x"}}
		}, "feeds[0].title"},
		{"content output without template", func(s *Site) {
			s.Feeds = []Feed{{Title: "t", Link: "/x", SourceDir: "x", ContentOutput: &Output{Link: "x"}}}
		}, "feeds[0].content_output.template"},
	}
	for _, tt := range tests {
		s := base()
		tt.edit(&s)
		err := s.Validate()
		if tt.field == "" {
			assert.NoError(t, err, tt.name)
			continue
		}
		var ce *ConfigError
		if assert.ErrorAs(t, err, &ce, tt.name) {
			assert.Equal(t, tt.field, ce.Field, tt.name)
		}
	}
}
