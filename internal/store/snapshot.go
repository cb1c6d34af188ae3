package store

import (
	"time"

	"github.com/idilsaglam/breachtrack/internal/model"
)

// Snapshot is a full dump of catalog plus user state, used for export/import.
type Snapshot struct {
	Catalog map[model.Category][]string
	Checked map[string]bool
	// Notes is nil when an import file carried no notes; importing it then
	// keeps the notes already stored.
	Notes     map[string]string
	Timestamp time.Time
}

// Validate checks the shape only. Domains unknown to the current catalog are
// allowed; they are stored and simply never rendered.
func (s *Snapshot) Validate() error {
	if s == nil {
		return invalid("empty snapshot")
	}
	if s.Catalog == nil {
		return invalid("missing catalog")
	}
	for cat := range s.Catalog {
		if !cat.Valid() {
			return invalid("unknown category %q in catalog", cat)
		}
	}
	if s.Checked == nil {
		return invalid("missing checked map")
	}
	for id := range s.Checked {
		if id == "" {
			return invalid("empty domain in checked map")
		}
	}
	for id := range s.Notes {
		if id == "" {
			return invalid("empty domain in notes map")
		}
	}
	return nil
}
