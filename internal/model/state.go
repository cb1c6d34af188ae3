package model

import (
	"fmt"
	"strings"
)

// UserState is the user-editable overlay on the catalog, keyed by domain.
// Entries for domains outside the catalog are kept but never rendered.
type UserState struct {
	Checked map[string]bool   `json:"checked"`
	Notes   map[string]string `json:"notes"`
}

func NewUserState() UserState {
	return UserState{Checked: map[string]bool{}, Notes: map[string]string{}}
}

func (u UserState) IsChecked(id string) bool { return u.Checked[id] }
func (u UserState) Note(id string) string    { return u.Notes[id] }

// Clone deep-copies both maps.
func (u UserState) Clone() UserState {
	out := NewUserState()
	for k, v := range u.Checked {
		out.Checked[k] = v
	}
	for k, v := range u.Notes {
		out.Notes[k] = v
	}
	return out
}

// Filter selects which categories are visible; "all" or one category.
type Filter string

const FilterAll Filter = "all"

// Filters lists the filter values in the order the UI cycles through them.
var Filters = []Filter{FilterAll, Filter(Critical), Filter(High), Filter(Medium), Filter(Low)}

func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(FilterAll) {
		return FilterAll, nil
	}
	c, err := ParseCategory(s)
	if err != nil {
		return "", fmt.Errorf("unknown filter: %q", s)
	}
	return Filter(c), nil
}

// Matches reports whether items of category c pass the filter.
func (f Filter) Matches(c Category) bool {
	return f == "" || f == FilterAll || Category(f) == c
}

// Next returns the filter after f in the UI cycle.
func (f Filter) Next() Filter {
	for i, x := range Filters {
		if x == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	}
	return "", fmt.Errorf("unknown theme: %q (want dark|light)", s)
}

// ViewState is cosmetic UI state. Only filtering couples it to the catalog.
type ViewState struct {
	Filter          Filter
	Search          string
	Collapsed       map[Category]bool
	HeaderCollapsed bool
	Theme           Theme
}

func DefaultViewState() ViewState {
	return ViewState{
		Filter:    FilterAll,
		Collapsed: map[Category]bool{},
		Theme:     ThemeDark,
	}
}
