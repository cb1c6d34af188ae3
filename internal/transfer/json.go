// Package transfer moves user state in and out of the tracker: JSON snapshots
// (export and import) and CSV tables (export only).
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/idilsaglam/breachtrack/internal/model"
	"github.com/idilsaglam/breachtrack/internal/store"
	"github.com/idilsaglam/breachtrack/internal/view"
)

// FormatVersion is written into every JSON export.
const FormatVersion = "1.0"

// ExportFileName is the default file name for an export in format (json|csv).
func ExportFileName(format string) string { return "breach-tracker-export." + format }

// ParseError means the payload isn't JSON at all, as opposed to
// store.ValidationError for JSON of the wrong shape.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("not valid JSON: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

type jsonExport struct {
	Catalog       map[model.Category][]string `json:"catalog"`
	Stats         view.Stats                  `json:"stats"`
	Checked       map[string]bool             `json:"checked"`
	Notes         map[string]string           `json:"notes"`
	ExportedAt    string                      `json:"exportedAt"`
	FormatVersion string                      `json:"formatVersion"`
}

// WriteJSON writes an indented JSON export of snap.
func WriteJSON(w io.Writer, snap store.Snapshot, stats view.Stats) error {
	doc := jsonExport{
		Catalog:       snap.Catalog,
		Stats:         stats,
		Checked:       snap.Checked,
		Notes:         snap.Notes,
		ExportedAt:    snap.Timestamp.UTC().Format(time.RFC3339Nano),
		FormatVersion: FormatVersion,
	}
	if doc.Checked == nil {
		doc.Checked = map[string]bool{}
	}
	if doc.Notes == nil {
		doc.Notes = map[string]string{}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// ParseJSON decodes and validates an import payload. Both the current field
// names (catalog, checked) and the older ones (domains, checklist) are
// accepted. Notes may be absent, in which case the snapshot's Notes is nil.
func ParseJSON(r io.Reader) (*store.Snapshot, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}
	if !json.Valid(b) {
		var syn any
		err := json.Unmarshal(b, &syn)
		if err == nil {
			err = errors.New("malformed document")
		}
		return nil, &ParseError{Err: err}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(b, &top); err != nil || top == nil {
		return nil, &store.ValidationError{Reason: "top level must be an object"}
	}

	catRaw, err := pick(top, "catalog", "domains")
	if err != nil {
		return nil, err
	}
	checkedRaw, err := pick(top, "checked", "checklist")
	if err != nil {
		return nil, err
	}

	snap := &store.Snapshot{
		Catalog: map[model.Category][]string{},
		Checked: map[string]bool{},
	}

	var groups map[string]json.RawMessage
	if err := json.Unmarshal(catRaw, &groups); err != nil {
		return nil, &store.ValidationError{Reason: "catalog must be an object"}
	}
	for k, v := range groups {
		var list []string
		if err := json.Unmarshal(v, &list); err != nil {
			return nil, &store.ValidationError{Reason: fmt.Sprintf("catalog.%s must be a list of domains", k)}
		}
		snap.Catalog[model.Category(k)] = list
	}

	if err := json.Unmarshal(checkedRaw, &snap.Checked); err != nil {
		return nil, &store.ValidationError{Reason: "checked must map domains to true/false"}
	}

	if notesRaw, ok := top["notes"]; ok && !isNull(notesRaw) {
		if !isObject(notesRaw) {
			return nil, &store.ValidationError{Reason: "notes must be an object"}
		}
		if err := json.Unmarshal(notesRaw, &snap.Notes); err != nil {
			return nil, &store.ValidationError{Reason: "notes must map domains to text"}
		}
	}

	if tsRaw, ok := top["exportedAt"]; ok {
		var ts string
		if json.Unmarshal(tsRaw, &ts) == nil {
			if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
				snap.Timestamp = t
			}
		}
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// pick returns the first present key, which must hold a JSON object.
func pick(top map[string]json.RawMessage, keys ...string) (json.RawMessage, error) {
	for _, k := range keys {
		v, ok := top[k]
		if !ok || isNull(v) {
			continue
		}
		if !isObject(v) {
			return nil, &store.ValidationError{Reason: fmt.Sprintf("%s must be an object", k)}
		}
		return v, nil
	}
	return nil, &store.ValidationError{Reason: fmt.Sprintf("missing %s", keys[0])}
}

func isObject(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '{'
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
