package app

import (
	"github.com/idilsaglam/breachtrack/internal/model"
	"github.com/idilsaglam/breachtrack/internal/store"
)

// Action is a user intent. The set is closed: only types in this package
// implement it, and Dispatch handles each one.
type Action interface {
	action()
}

type ToggleChecked struct{ ID string }

type SetChecked struct {
	ID    string
	Value bool
}

type SetNote struct {
	ID   string
	Text string
}

type SetFilter struct{ Filter model.Filter }

type SetSearch struct{ Text string }

type ToggleCategory struct{ Category model.Category }

type ToggleHeader struct{}

type ToggleTheme struct{}

type SetTheme struct{ Theme model.Theme }

// ApplyImport replaces user state with a validated snapshot.
type ApplyImport struct{ Snapshot *store.Snapshot }

// ReplaceCatalog swaps in a reloaded catalog. User state is kept as is.
type ReplaceCatalog struct{ Catalog model.Catalog }

func (ToggleChecked) action()  {}
func (SetChecked) action()     {}
func (SetNote) action()        {}
func (SetFilter) action()      {}
func (SetSearch) action()      {}
func (ToggleCategory) action() {}
func (ToggleHeader) action()   {}
func (ToggleTheme) action()    {}
func (SetTheme) action()       {}
func (ApplyImport) action()    {}
func (ReplaceCatalog) action() {}
