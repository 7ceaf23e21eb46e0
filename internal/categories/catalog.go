package categories

import (
	"strings"

	"github.com/billbook-dev/billbook/internal/model"
)

// Category is one entry of a fixed enumeration.
type Category struct {
	Label string // persisted in the "kategori" field
	Name  string // English display name
}

// IsOther reports whether this is the free-text "Other" category.
func (c Category) IsOther() bool {
	return c.Label == model.OtherLabel
}

// Catalog provides lookup over a fixed category enumeration.
type Catalog struct {
	kind       model.Kind
	categories []Category
	byKey      map[string]Category
}

// NewCatalog creates a Catalog. Both labels and names are lookup keys.
func NewCatalog(kind model.Kind, cats []Category) *Catalog {
	byKey := make(map[string]Category, len(cats)*2)
	for _, c := range cats {
		byKey[strings.ToLower(c.Label)] = c
		byKey[strings.ToLower(c.Name)] = c
	}
	return &Catalog{kind: kind, categories: cats, byKey: byKey}
}

// Kind returns the record kind this catalog applies to.
func (c *Catalog) Kind() model.Kind {
	return c.kind
}

// All returns the categories in enumeration order.
func (c *Catalog) All() []Category {
	return c.categories
}

// Labels returns the persisted labels in enumeration order.
func (c *Catalog) Labels() []string {
	labels := make([]string, len(c.categories))
	for i, cat := range c.categories {
		labels[i] = cat.Label
	}
	return labels
}

// Lookup finds a category by label or English name, ignoring case and
// surrounding space.
func (c *Catalog) Lookup(s string) (Category, bool) {
	cat, ok := c.byKey[strings.ToLower(strings.TrimSpace(s))]
	return cat, ok
}

// Exists reports whether s names a category in this catalog.
func (c *Catalog) Exists(s string) bool {
	_, ok := c.Lookup(s)
	return ok
}

// DisplayName returns the English name for a persisted label. Labels outside
// the enumeration are returned unchanged.
func (c *Catalog) DisplayName(label string) string {
	if cat, ok := c.byKey[strings.ToLower(label)]; ok {
		return cat.Name
	}
	return label
}

// Names returns the English names, for help text.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.Name
	}
	return names
}
