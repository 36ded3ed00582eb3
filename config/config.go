// Package config holds the site and feed configuration and loads it from a
// YAML file with INKWELL_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Site is the complete configuration of one inkwell site.
type Site struct {
	ServerName string `mapstructure:"server_name"` // public origin, e.g. https://example.com
	Addr       string `mapstructure:"addr"`        // listen address (default ":8000")

	ContentDir   string   `mapstructure:"content_dir"`   // content root (default "public")
	ContentExt   string   `mapstructure:"content_ext"`   // template extension, no dot (default "html")
	PageExt      string   `mapstructure:"page_ext"`      // interpolated page extension, no dot (default "rhc")
	IndexFiles   []string `mapstructure:"index_files"`   // probed in order (default index, home)
	IgnoredPaths []string `mapstructure:"ignored_paths"` // request prefixes that are never served
	LayoutsDir   string   `mapstructure:"layouts_dir"`   // templates shared by every page (default "_layouts")

	ErrorTemplate string            `mapstructure:"error_template"` // template name, gets status_code and reason
	ErrorPage     string            `mapstructure:"error_page"`     // interpolation file, gets error_code and error_message
	Values        map[string]string `mapstructure:"values"`         // site-wide interpolation values
	Sitemap       string            `mapstructure:"sitemap"`        // logical path of a generated sitemap

	Analytics Analytics `mapstructure:"analytics"`
	Feeds     []Feed    `mapstructure:"feeds"`
}

// Analytics configures the request statistics store.
type Analytics struct {
	Enabled       bool   `mapstructure:"enabled"`
	DatabasePath  string `mapstructure:"database_path"`  // default "data/inkwell.db"
	RetentionDays int    `mapstructure:"retention_days"` // 0 selects the default of 90
}

// Feed declares one collection of content items and what is generated
// from it.
type Feed struct {
	Title         string  `mapstructure:"title"`
	Description   string  `mapstructure:"description"`
	Link          string  `mapstructure:"link"`
	SourceDir     string  `mapstructure:"source_dir"`
	ContentOutput *Output `mapstructure:"content_output"`
	IndexOutput   *Output `mapstructure:"index_output"`
	RSSLink       string  `mapstructure:"rss_link"`
}

// Output names the template used for a generated document and the logical
// path it is published under. For content outputs Link is a prefix that
// each item identifier is appended to.
type Output struct {
	Template string `mapstructure:"template"`
	Link     string `mapstructure:"link"`
}

// ConfigError reports an invalid or inconsistent setting.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

var defaults = map[string]any{
	"server_name":              "http://localhost:8000",
	"addr":                     ":8000",
	"content_dir":              "public",
	"content_ext":              "html",
	"page_ext":                 "rhc",
	"index_files":              []string{"index", "home"},
	"layouts_dir":              "_layouts",
	"analytics.database_path":  "data/inkwell.db",
	"analytics.retention_days": 90,
}

// SetDefaults fills zero-valued fields with their defaults.
func (s *Site) SetDefaults() {
	if s.ServerName == "" {
		s.ServerName = defaults["server_name"].(string)
	}
	s.ServerName = strings.TrimRight(s.ServerName, "/")
	if s.Addr == "" {
		s.Addr = defaults["addr"].(string)
	}
	if s.ContentDir == "" {
		s.ContentDir = defaults["content_dir"].(string)
	}
	if s.ContentExt == "" {
		s.ContentExt = defaults["content_ext"].(string)
	}
	if s.PageExt == "" {
		s.PageExt = defaults["page_ext"].(string)
	}
	if len(s.IndexFiles) == 0 {
		s.IndexFiles = append([]string(nil), defaults["index_files"].([]string)...)
	}
	if s.LayoutsDir == "" {
		s.LayoutsDir = defaults["layouts_dir"].(string)
	}
	if s.Analytics.DatabasePath == "" {
		s.Analytics.DatabasePath = defaults["analytics.database_path"].(string)
	}
	if s.Analytics.RetentionDays == 0 {
		s.Analytics.RetentionDays = defaults["analytics.retention_days"].(int)
	}
}

// Validate checks the configuration for missing or contradictory settings.
func (s *Site) Validate() error {
	if s.ContentExt == "" || strings.Contains(s.ContentExt, ".") {
		return &ConfigError{Field: "content_ext", Reason: "must be a non-empty extension without a dot"}
	}
	if s.PageExt == "" || strings.Contains(s.PageExt, ".") || s.PageExt == s.ContentExt {
		return &ConfigError{Field: "page_ext", Reason: "must be an extension without a dot that differs from content_ext"}
	}
	for i, name := range s.IndexFiles {
		if name == "" || strings.Contains(name, "/") {
			return &ConfigError{Field: fmt.Sprintf("index_files[%d]", i), Reason: "must be a plain file name"}
		}
	}
	if s.Analytics.RetentionDays < 0 {
		return &ConfigError{Field: "analytics.retention_days", Reason: "must be positive, or 0 for the default"}
	}
	for i, f := range s.Feeds {
		if err := f.Validate(); err != nil {
			var ce *ConfigError
			if errors.As(err, &ce) {
				return &ConfigError{Field: fmt.Sprintf("feeds[%d].%s", i, ce.Field), Reason: ce.Reason}
			}
			return err
		}
	}
	return nil
}

// Validate checks a single feed declaration.
func (f Feed) Validate() error {
	switch {
	case f.Title == "":
		return &ConfigError{Field: "title", Reason: "is required"}
	case f.Link == "":
		return &ConfigError{Field: "link", Reason: "is required"}
	case f.SourceDir == "":
		return &ConfigError{Field: "source_dir", Reason: "is required"}
	case f.ContentOutput != nil && f.ContentOutput.Template == "":
		return &ConfigError{Field: "content_output.template", Reason: "is required"}
	case f.IndexOutput != nil && f.IndexOutput.Template == "":
		return &ConfigError{Field: "index_output.template", Reason: "is required"}
	case f.RSSLink != "" && f.IndexOutput == nil:
		return &ConfigError{Field: "rss_link", Reason: "requires index_output"}
	}
	return nil
}

// ContentFS returns the content root as a file system.
func (s *Site) ContentFS() fs.FS {
	return os.DirFS(s.ContentDir)
}

// Load reads the site configuration from path. An empty path searches for
// inkwell.yaml in the working directory and falls back to defaults when it
// does not exist. Environment variables prefixed with INKWELL_ override
// file values (INKWELL_ADDR, INKWELL_ANALYTICS_ENABLED, ...).
func Load(path string) (*Site, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("inkwell")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("INKWELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetDefault("analytics.enabled", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var site Site
	if err := v.Unmarshal(&site); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	site.SetDefaults()
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}
