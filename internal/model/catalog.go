package model

import (
	"fmt"
	"strings"
)

// Catalog is the fixed, ordered list of tracked domains.
type Catalog struct {
	items []Item
	index map[string]int
}

// NewCatalog builds a catalog, rejecting duplicate ids and unknown categories.
func NewCatalog(items []Item) (Catalog, error) {
	c := Catalog{
		items: make([]Item, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, it := range items {
		id := strings.TrimSpace(it.ID)
		if id == "" {
			return Catalog{}, fmt.Errorf("catalog: empty domain in %s", it.Category)
		}
		if !it.Category.Valid() {
			return Catalog{}, fmt.Errorf("catalog: %s has unknown category %q", id, it.Category)
		}
		if _, dup := c.index[id]; dup {
			return Catalog{}, fmt.Errorf("catalog: duplicate domain %s", id)
		}
		c.index[id] = len(c.items)
		c.items = append(c.items, Item{ID: id, Category: it.Category})
	}
	return c, nil
}

// FromGroups builds a catalog from per-category domain lists, walking
// categories in display order.
func FromGroups(groups map[Category][]string) (Catalog, error) {
	var items []Item
	for _, cat := range Categories {
		for _, id := range groups[cat] {
			items = append(items, Item{ID: id, Category: cat})
		}
	}
	for cat := range groups {
		if !cat.Valid() {
			return Catalog{}, fmt.Errorf("catalog: unknown category %q", cat)
		}
	}
	return NewCatalog(items)
}

// Items returns a copy of the catalog in its original order.
func (c Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c Catalog) Len() int { return len(c.items) }

func (c Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

func (c Catalog) Lookup(id string) (Item, bool) {
	i, ok := c.index[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// ByCategory groups domain ids per category, preserving catalog order.
// Every category has an entry, possibly empty.
func (c Catalog) ByCategory() map[Category][]string {
	out := make(map[Category][]string, len(Categories))
	for _, cat := range Categories {
		out[cat] = []string{}
	}
	for _, it := range c.items {
		out[it.Category] = append(out[it.Category], it.ID)
	}
	return out
}

// Counts returns the number of domains per category.
func (c Catalog) Counts() map[Category]int {
	out := make(map[Category]int, len(Categories))
	for _, cat := range Categories {
		out[cat] = 0
	}
	for _, it := range c.items {
		out[it.Category]++
	}
	return out
}
