// Package store holds the canonical user state (checked flags, notes and the
// persisted view preferences) on top of a kv backend.
//
// Persistence is best effort. Reads that fail fall back to defaults; a failed
// write switches the store to memory-only for the rest of the session. No
// backend error ever escapes a getter or setter.
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/breachtrack/internal/kv"
	"github.com/idilsaglam/breachtrack/internal/logging"
	"github.com/idilsaglam/breachtrack/internal/model"
)

const opTimeout = 5 * time.Second

type Store struct {
	backend kv.Store
	log     *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	checked  map[string]bool
	notes    map[string]string
	theme    model.Theme
	expanded map[model.Category]bool // stored as "expanded", matching the key's historic shape
	header   bool
	welcome  bool
	degraded bool
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.log = logging.OrNop(l) } }

// WithClock fixes the timestamp source used by ExportSnapshot.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// Open loads every persisted record from backend. A nil backend, or one that
// fails to read, leaves the store in memory-only mode with defaults.
func Open(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		log:      logging.Nop(),
		now:      time.Now,
		checked:  map[string]bool{},
		notes:    map[string]string{},
		theme:    model.ThemeDark,
		expanded: defaultExpanded(),
	}
	for _, o := range opts {
		o(s)
	}
	if backend == nil {
		s.degraded = true
		return s
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.read(KeyChecklist, &s.checked)
	s.read(KeyNotes, &s.notes)
	var theme string
	if s.read(KeyTheme, &theme) {
		if t, err := model.ParseTheme(theme); err == nil {
			s.theme = t
		}
	}
	s.read(KeyCategories, &s.expanded)
	s.read(KeyHeader, &s.header)
	s.read(KeyWelcome, &s.welcome)
	if s.checked == nil {
		s.checked = map[string]bool{}
	}
	if s.notes == nil {
		s.notes = map[string]string{}
	}
	if s.expanded == nil {
		s.expanded = defaultExpanded()
	}
	return s
}

func defaultExpanded() map[model.Category]bool {
	out := make(map[model.Category]bool, len(model.Categories))
	for _, c := range model.Categories {
		out[c] = true
	}
	return out
}

// read decodes key into dst, reporting whether a value was found. Failures are
// logged and leave dst at its default. Caller holds mu.
func (s *Store) read(key string, dst any) bool {
	if s.degraded {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	found, err := kv.GetJSON(ctx, s.backend, key, dst)
	if err != nil {
		s.log.Warn("read failed; using default", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

// write persists a whole record. Caller holds mu.
func (s *Store) write(key string, v any) SaveResult {
	if s.degraded {
		return MemoryOnly
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := kv.SetJSON(ctx, s.backend, key, v); err != nil {
		s.degraded = true
		s.log.Warn("write failed; continuing without persistence",
			zap.String("key", key), zap.Error(err), zap.NamedError("kind", ErrPersistenceUnavailable))
		return MemoryOnly
	}
	return Saved
}

// Degraded reports whether the store has fallen back to memory-only mode.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Close releases the backend. Safe on a nil-backend store.
func (s *Store) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

func (s *Store) GetChecked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checked[id]
}

// SetChecked is idempotent: repeating a call stores the same record.
func (s *Store) SetChecked(id string, v bool) SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mergeChecked()
	s.checked[id] = v
	return s.write(KeyChecklist, s.checked)
}

// ToggleChecked flips id and returns the new value.
func (s *Store) ToggleChecked(id string) (bool, SaveResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mergeChecked()
	v := !s.checked[id]
	s.checked[id] = v
	return v, s.write(KeyChecklist, s.checked)
}

func (s *Store) GetNote(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes[id]
}

func (s *Store) SetNote(id, text string) SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mergeNotes()
	s.notes[id] = text
	return s.write(KeyNotes, s.notes)
}

// mergeChecked reloads the checklist record before a read-modify-write, so
// entries added or removed by other processes are kept as they left them.
// Caller holds mu.
func (s *Store) mergeChecked() {
	var latest map[string]bool
	if s.read(KeyChecklist, &latest) && latest != nil {
		s.checked = latest
	}
}

func (s *Store) mergeNotes() {
	var latest map[string]string
	if s.read(KeyNotes, &latest) && latest != nil {
		s.notes = latest
	}
}

// UserState returns a copy of the checked and notes records.
func (s *Store) UserState() model.UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.UserState{Checked: s.checked, Notes: s.notes}.Clone()
}

func (s *Store) Theme() model.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Store) SetTheme(t model.Theme) SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = t
	return s.write(KeyTheme, string(t))
}

func (s *Store) CategoryCollapsed(c model.Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	expanded, ok := s.expanded[c]
	return ok && !expanded
}

func (s *Store) SetCategoryCollapsed(c model.Category, collapsed bool) SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded[c] = !collapsed
	return s.write(KeyCategories, s.expanded)
}

// Collapsed returns the set of collapsed categories.
func (s *Store) Collapsed() map[model.Category]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[model.Category]bool{}
	for c, expanded := range s.expanded {
		if !expanded {
			out[c] = true
		}
	}
	return out
}

func (s *Store) HeaderCollapsed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.header
}

func (s *Store) SetHeaderCollapsed(v bool) SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.header = v
	return s.write(KeyHeader, v)
}

func (s *Store) WelcomeShown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.welcome
}

func (s *Store) MarkWelcomeShown() SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.welcome = true
	return s.write(KeyWelcome, true)
}

// ExportSnapshot dumps the catalog and user state.
func (s *Store) ExportSnapshot(c model.Catalog) Snapshot {
	u := s.UserState()
	return Snapshot{
		Catalog:   c.ByCategory(),
		Checked:   u.Checked,
		Notes:     u.Notes,
		Timestamp: s.now().UTC(),
	}
}

// ImportSnapshot replaces the checked record with snap's, and the notes
// record too when snap carries notes. The snapshot is fully validated first;
// on error the store is left untouched.
func (s *Store) ImportSnapshot(snap *Snapshot) (SaveResult, error) {
	if err := snap.Validate(); err != nil {
		return Saved, err
	}
	checked := make(map[string]bool, len(snap.Checked))
	for k, v := range snap.Checked {
		checked[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.checked = checked
	res := s.write(KeyChecklist, s.checked)
	if snap.Notes != nil {
		notes := make(map[string]string, len(snap.Notes))
		for k, v := range snap.Notes {
			notes[k] = v
		}
		s.notes = notes
		if s.write(KeyNotes, s.notes) == MemoryOnly {
			res = MemoryOnly
		}
	}
	return res, nil
}
