package languages

import (
	"sort"
	"strings"
)

// Descriptor describes one language and its extensions for display.
type Descriptor struct {
	Name       string
	Extensions []string
}

// Classifier resolves a filename to a language label through a reverse
// index built once from a Table.
type Classifier struct {
	languages []Descriptor
	byExt     map[string]string
}

// NewClassifier builds a Classifier from table. The table is copied; later
// changes to it do not affect the Classifier.
//
// If two languages claim the same extension, the language whose name sorts
// first wins.
func NewClassifier(table Table) *Classifier {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	c := &Classifier{
		languages: make([]Descriptor, 0, len(names)),
		byExt:     make(map[string]string),
	}

	for _, name := range names {
		extensions := append([]string(nil), table[name]...)
		sort.Strings(extensions)
		c.languages = append(c.languages, Descriptor{Name: name, Extensions: extensions})

		for _, ext := range extensions {
			if _, taken := c.byExt[ext]; !taken {
				c.byExt[ext] = name
			}
		}
	}

	return c
}

// NewDefaultClassifier returns a Classifier over DefaultTable.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultTable())
}

// Classify returns the language label for filename, or Unknown.
// Only the extension is inspected, so a base name is expected.
func (c *Classifier) Classify(filename string) string {
	if lang, ok := c.byExt[Extension(filename)]; ok {
		return lang
	}
	return Unknown
}

// Languages returns the configured languages sorted by name.
func (c *Classifier) Languages() []Descriptor {
	result := make([]Descriptor, len(c.languages))
	for i, d := range c.languages {
		result[i] = Descriptor{
			Name:       d.Name,
			Extensions: append([]string(nil), d.Extensions...),
		}
	}
	return result
}

// Extension returns the substring of filename from its last '.' to the end,
// or "" when filename has no '.'.
func Extension(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		return filename[i:]
	}
	return ""
}
