package domain

import (
	"slices"
	"sort"
	"strings"
)

// DefaultCatalogNames lists the measures published in the NOAA export.
var DefaultCatalogNames = []string{
	"World", "Adriatic Sea", "Andaman Sea", "Arabian Sea", "Atlantic Ocean",
	"Baltic Sea", "Bay Bengal", "Bering Sea", "Caribbean Sea", "Gulf Mexico",
	"Indian Ocean", "Indonesian", "Mediterranean", "Nino", "North Atlantic",
	"North Pacific", "North Sea", "Pacific Ocean", "Persian Gulf", "Sea Japan",
	"Sea Okhotsk", "South China", "Southern Ocean", "Tropics", "Yellow Sea",
}

// Catalog is the ordered list of selectable categories: World first, the rest
// alphabetical.
type Catalog struct {
	names []string
}

// NewCatalog deduplicates names and orders them with World first.
func NewCatalog(names []string) *Catalog {
	seen := make(map[string]struct{}, len(names))
	hasWorld := false
	rest := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if strings.EqualFold(n, DefaultCategory) {
			hasWorld = true
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		rest = append(rest, n)
	}
	sort.Strings(rest)

	out := make([]string, 0, len(rest)+1)
	if hasWorld {
		out = append(out, DefaultCategory)
	}
	return &Catalog{names: append(out, rest...)}
}

// CatalogFor builds the picker catalog for a loaded dataset: the NOAA
// measures plus any other category the dataset contains.
func CatalogFor(store *Store) *Catalog {
	names := append(slices.Clone(DefaultCatalogNames), store.Categories()...)
	return NewCatalog(names)
}

// Names returns every category in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Contains reports whether name is in the catalog.
func (c *Catalog) Contains(name string) bool {
	for _, n := range c.names {
		if n == name {
			return true
		}
	}
	return false
}

// Filter returns the categories containing term, case-insensitively, in
// catalog order. An empty term matches everything.
func (c *Catalog) Filter(term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]string, 0, len(c.names))
	for _, n := range c.names {
		if strings.Contains(strings.ToLower(n), term) {
			out = append(out, n)
		}
	}
	return out
}

// ComparisonOptions returns "None" followed by the categories matching term,
// excluding the current primary.
func (c *Catalog) ComparisonOptions(primary, term string) []string {
	out := []string{NoneOption}
	for _, n := range c.Filter(term) {
		if n != primary {
			out = append(out, n)
		}
	}
	return out
}
