package generate

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Key normalizes a logical path into an OutputMap key: cleaned, without
// leading or trailing slashes. The site root is "".
func Key(p string) string {
	return strings.Trim(path.Clean("/"+p), "/")
}

// DuplicateOutputError reports two generated documents claiming one path.
type DuplicateOutputError struct {
	Path string
}

func (e *DuplicateOutputError) Error() string {
	return fmt.Sprintf("output %q generated twice", "/"+e.Path)
}

// OutputMap maps logical output paths to generated documents. It is built
// once by Generate and never modified afterwards, so concurrent readers
// need no locking.
type OutputMap struct {
	docs map[string]string
}

func newOutputMap() *OutputMap {
	return &OutputMap{docs: make(map[string]string)}
}

func (m *OutputMap) put(p, doc string) error {
	k := Key(p)
	if _, ok := m.docs[k]; ok {
		return &DuplicateOutputError{Path: k}
	}
	m.docs[k] = doc
	return nil
}

// Get returns the document generated for p.
func (m *OutputMap) Get(p string) (string, bool) {
	if m == nil {
		return "", false
	}
	doc, ok := m.docs[Key(p)]
	return doc, ok
}

// Len returns the number of documents.
func (m *OutputMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.docs)
}

// Paths returns every key in lexical order.
func (m *OutputMap) Paths() []string {
	if m == nil {
		return nil
	}
	paths := make([]string, 0, len(m.docs))
	for p := range m.docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
