// Package view computes what the UI shows from catalog, user state and view
// filters. Everything here is a pure function; renderers call it again after
// every state change.
package view

import (
	"math"
	"sort"
	"strings"

	"github.com/idilsaglam/breachtrack/internal/model"
)

// DisplayItem is one visible row.
type DisplayItem struct {
	ID        string
	Category  model.Category
	Checked   bool
	Note      string
	Collapsed bool // the item's category section is collapsed
}

// Project filters the catalog by category and case-insensitive substring
// search, and orders the result critical, high, medium, low with catalog order
// kept inside each category.
func Project(c model.Catalog, u model.UserState, v model.ViewState) []DisplayItem {
	needle := strings.ToLower(strings.TrimSpace(v.Search))
	items := c.Items()
	out := make([]DisplayItem, 0, len(items))
	for _, it := range items {
		if !v.Filter.Matches(it.Category) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(it.ID), needle) {
			continue
		}
		out = append(out, DisplayItem{
			ID:        it.ID,
			Category:  it.Category,
			Checked:   u.IsChecked(it.ID),
			Note:      u.Note(it.ID),
			Collapsed: v.Collapsed[it.Category],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Category.Rank() < out[j].Category.Rank()
	})
	return out
}

// Section is a run of DisplayItems sharing a category.
type Section struct {
	Category  model.Category
	Collapsed bool
	Items     []DisplayItem
}

// Group splits a projection into sections. Categories with no visible items
// are omitted.
func Group(items []DisplayItem) []Section {
	var out []Section
	for _, it := range items {
		if n := len(out); n == 0 || out[n-1].Category != it.Category {
			out = append(out, Section{Category: it.Category, Collapsed: it.Collapsed})
		}
		out[len(out)-1].Items = append(out[len(out)-1].Items, it)
	}
	return out
}

// CategoryStats counts one category.
type CategoryStats struct {
	Checked int `json:"checked"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

type Stats struct {
	Total       int                              `json:"total"`
	Checked     int                              `json:"checked"`
	Percent     int                              `json:"percent"`
	PerCategory map[model.Category]CategoryStats `json:"categories"`
}

// Percent is round(checked/total*100), 0 when total is 0.
func Percent(checked, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(checked) / float64(total) * 100))
}

// ComputeStats counts catalog items only: checked entries for unknown domains
// don't inflate progress.
func ComputeStats(c model.Catalog, u model.UserState) Stats {
	st := Stats{PerCategory: make(map[model.Category]CategoryStats, len(model.Categories))}
	for _, cat := range model.Categories {
		st.PerCategory[cat] = CategoryStats{}
	}
	for _, it := range c.Items() {
		cs := st.PerCategory[it.Category]
		cs.Total++
		st.Total++
		if u.IsChecked(it.ID) {
			cs.Checked++
			st.Checked++
		}
		st.PerCategory[it.Category] = cs
	}
	for cat, cs := range st.PerCategory {
		cs.Percent = Percent(cs.Checked, cs.Total)
		st.PerCategory[cat] = cs
	}
	st.Percent = Percent(st.Checked, st.Total)
	return st
}
