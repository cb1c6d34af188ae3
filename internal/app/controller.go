// Package app owns the running tracker: catalog, state store and session view
// filters. Every user action goes through Controller.Dispatch, which mutates
// state and re-renders the projection.
package app

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/breachtrack/internal/debounce"
	"github.com/idilsaglam/breachtrack/internal/logging"
	"github.com/idilsaglam/breachtrack/internal/model"
	"github.com/idilsaglam/breachtrack/internal/store"
	"github.com/idilsaglam/breachtrack/internal/view"
)

// DefaultNoteDebounce is how long a note must be quiet before it is saved.
const DefaultNoteDebounce = 500 * time.Millisecond

// Renderer turns a projection into something visible.
type Renderer interface {
	Render(items []view.DisplayItem, stats view.Stats)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(items []view.DisplayItem, stats view.Stats)

func (f RenderFunc) Render(items []view.DisplayItem, stats view.Stats) { f(items, stats) }

type Controller struct {
	store *store.Store
	log   *zap.Logger
	notes *debounce.Debouncer

	mu       sync.Mutex
	renderer Renderer
	catalog  model.Catalog
	filter   model.Filter
	query    string
}

type Options struct {
	Logger       *zap.Logger
	Renderer     Renderer
	NoteDebounce time.Duration
}

func New(c model.Catalog, s *store.Store, opts Options) *Controller {
	return &Controller{
		store:    s,
		log:      logging.OrNop(opts.Logger),
		renderer: opts.Renderer,
		notes:    debounce.New(opts.NoteDebounce),
		catalog:  c,
		filter:   model.FilterAll,
	}
}

func (c *Controller) Store() *store.Store { return c.store }

// SetRenderer replaces the renderer. Nil disables rendering.
func (c *Controller) SetRenderer(r Renderer) {
	c.mu.Lock()
	c.renderer = r
	c.mu.Unlock()
}

func (c *Controller) Catalog() model.Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog
}

// ViewState combines session filters with the persisted view preferences.
func (c *Controller) ViewState() model.ViewState {
	c.mu.Lock()
	filter, query := c.filter, c.query
	c.mu.Unlock()
	return model.ViewState{
		Filter:          filter,
		Search:          query,
		Collapsed:       c.store.Collapsed(),
		HeaderCollapsed: c.store.HeaderCollapsed(),
		Theme:           c.store.Theme(),
	}
}

// Projection computes the visible items and catalog-wide stats.
func (c *Controller) Projection() ([]view.DisplayItem, view.Stats) {
	cat := c.Catalog()
	u := c.store.UserState()
	return view.Project(cat, u, c.ViewState()), view.ComputeStats(cat, u)
}

// Snapshot exports the current catalog and user state.
func (c *Controller) Snapshot() store.Snapshot {
	return c.store.ExportSnapshot(c.Catalog())
}

// Dispatch applies one action and re-renders. Only ApplyImport can fail, with
// a *store.ValidationError; the store is untouched in that case.
func (c *Controller) Dispatch(a Action) error {
	if err := c.reduce(a); err != nil {
		return err
	}
	c.Render()
	return nil
}

func (c *Controller) reduce(a Action) error {
	switch a := a.(type) {
	case ToggleChecked:
		c.saved("checklist", func() store.SaveResult {
			_, r := c.store.ToggleChecked(a.ID)
			return r
		})
	case SetChecked:
		c.saved("checklist", func() store.SaveResult { return c.store.SetChecked(a.ID, a.Value) })
	case SetNote:
		// A direct save supersedes any draft still waiting.
		c.notes.Cancel(a.ID)
		c.saved("notes", func() store.SaveResult { return c.store.SetNote(a.ID, a.Text) })
	case SetFilter:
		c.mu.Lock()
		c.filter = a.Filter
		c.mu.Unlock()
	case SetSearch:
		c.mu.Lock()
		c.query = a.Text
		c.mu.Unlock()
	case ToggleCategory:
		collapsed := c.store.CategoryCollapsed(a.Category)
		c.saved("categories", func() store.SaveResult { return c.store.SetCategoryCollapsed(a.Category, !collapsed) })
	case ToggleHeader:
		v := !c.store.HeaderCollapsed()
		c.saved("header", func() store.SaveResult { return c.store.SetHeaderCollapsed(v) })
	case ToggleTheme:
		t := c.store.Theme().Toggle()
		c.saved("theme", func() store.SaveResult { return c.store.SetTheme(t) })
	case SetTheme:
		c.saved("theme", func() store.SaveResult { return c.store.SetTheme(a.Theme) })
	case ApplyImport:
		res, err := c.store.ImportSnapshot(a.Snapshot)
		if err != nil {
			c.log.Info("import rejected", zap.Error(err))
			return err
		}
		if res == store.MemoryOnly {
			c.log.Warn("import applied in memory only")
		}
	case ReplaceCatalog:
		c.mu.Lock()
		c.catalog = a.Catalog
		c.mu.Unlock()
	default:
		return fmt.Errorf("app: unhandled action %T", a)
	}
	return nil
}

func (c *Controller) saved(what string, fn func() store.SaveResult) {
	if r := fn(); r == store.MemoryOnly {
		c.log.Debug("change kept in memory only", zap.String("record", what))
	}
}

// ImportSnapshot applies snap through Dispatch, so a Controller can stand in
// for the store when an import is committed.
func (c *Controller) ImportSnapshot(snap *store.Snapshot) (store.SaveResult, error) {
	if err := c.Dispatch(ApplyImport{Snapshot: snap}); err != nil {
		return store.Saved, err
	}
	if c.store.Degraded() {
		return store.MemoryOnly, nil
	}
	return store.Saved, nil
}

// Render pushes the current projection to the renderer, if any.
func (c *Controller) Render() {
	c.mu.Lock()
	r := c.renderer
	c.mu.Unlock()
	if r == nil {
		return
	}
	items, stats := c.Projection()
	r.Render(items, stats)
}

// DraftNote records in-progress note text. Saves for the same domain are
// coalesced: only the last draft of a burst is written, once the note has
// been quiet for the note debounce period.
func (c *Controller) DraftNote(id, text string) {
	c.notes.Trigger(id, func() {
		c.store.SetNote(id, text)
		c.Render()
	})
}

// FlushNote writes id's pending draft immediately.
func (c *Controller) FlushNote(id string) { c.notes.FlushKey(id) }

// Close writes any pending drafts and releases the store.
func (c *Controller) Close() error {
	c.notes.Flush()
	c.notes.Stop()
	return c.store.Close()
}
