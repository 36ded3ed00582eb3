package content

import (
	"fmt"
	"html/template"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the format of the front-matter date field.
const DateLayout = "2006-01-02"

// Date is a calendar date read from front matter as YYYY-MM-DD.
type Date struct {
	time.Time
}

// UnmarshalYAML parses the scalar value with DateLayout.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", value.Line)
	}
	t, err := time.Parse(DateLayout, value.Value)
	if err != nil {
		return fmt.Errorf("line %d: date %q: want YYYY-MM-DD", value.Line, value.Value)
	}
	d.Time = t
	return nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Image is the optional illustration of an item. Width and Height are
// filled in when the file can be decoded.
type Image struct {
	Alt      string `yaml:"alt"`
	FileName string `yaml:"file_name"`
	Width    int    `yaml:"-"`
	Height   int    `yaml:"-"`
}

// Link is an outbound link listed with an item.
type Link struct {
	Content string `yaml:"content"`
	URL     string `yaml:"url"`
}

// Metadata is the front-matter block of a content file.
type Metadata struct {
	Title       string   `yaml:"title"`
	Subtitle    string   `yaml:"subtitle"`
	Date        Date     `yaml:"date"`
	DateLabel   string   `yaml:"date_label"`
	Tags        []string `yaml:"tags"`
	Image       *Image   `yaml:"image"`
	Links       []Link   `yaml:"links"`
	ContentType string   `yaml:"content_type"`
}

// Item is one parsed content file. ID is the file name without its
// extension; Content is the body as HTML.
type Item struct {
	ID string
	Metadata
	Content template.HTML
	Source  string
}

// Content types understood by the loader.
const (
	TypeHTML     = "html"
	TypeMarkdown = "md"
)
