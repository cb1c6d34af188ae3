package transfer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/idilsaglam/breachtrack/internal/store"
)

// ImportState tracks one import attempt:
//
//	Idle -> FileSelected -> Validated -> Applied
//	Idle -> FileSelected -> Rejected -> Idle
type ImportState int

const (
	Idle ImportState = iota
	FileSelected
	Validated
	Applied
	Rejected
)

func (s ImportState) String() string {
	switch s {
	case Idle:
		return "idle"
	case FileSelected:
		return "file-selected"
	case Validated:
		return "validated"
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	}
	return fmt.Sprintf("ImportState(%d)", int(s))
}

// Applier receives a validated snapshot. *store.Store implements it.
type Applier interface {
	ImportSnapshot(*store.Snapshot) (store.SaveResult, error)
}

// Importer walks a file through validation before anything touches the store.
type Importer struct {
	state  ImportState
	path   string
	snap   *store.Snapshot
	reason error
}

func (im *Importer) State() ImportState { return im.state }
func (im *Importer) Path() string       { return im.path }

// Reason is why the last attempt was rejected.
func (im *Importer) Reason() error { return im.reason }

// Snapshot is the validated payload, available in Validated and Applied.
func (im *Importer) Snapshot() *store.Snapshot { return im.snap }

func (im *Importer) reject(err error) error {
	im.state = Rejected
	im.reason = err
	im.snap = nil
	return err
}

// Select picks the file. Anything but .json is rejected straight away.
func (im *Importer) Select(path string) error {
	if im.state != Idle {
		return fmt.Errorf("import: select in state %s", im.state)
	}
	im.path = path
	im.state = FileSelected
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return nil
	case ".csv":
		return im.reject(ErrCSVImportUnsupported)
	}
	return im.reject(fmt.Errorf("please select a JSON file (got %q)", filepath.Base(path)))
}

// Load parses and validates the selected file's content.
func (im *Importer) Load(r io.Reader) error {
	if im.state != FileSelected {
		return fmt.Errorf("import: load in state %s", im.state)
	}
	snap, err := ParseJSON(r)
	if err != nil {
		return im.reject(err)
	}
	im.snap = snap
	im.state = Validated
	return nil
}

// ReadFile reads the selected path from disk and loads it.
func (im *Importer) ReadFile() error {
	if im.state != FileSelected {
		return fmt.Errorf("import: read in state %s", im.state)
	}
	b, err := os.ReadFile(im.path)
	if err != nil {
		return im.reject(fmt.Errorf("read %s: %w", im.path, err))
	}
	return im.Load(bytes.NewReader(b))
}

// Apply commits the validated snapshot.
func (im *Importer) Apply(dst Applier) (store.SaveResult, error) {
	if im.state != Validated {
		return store.Saved, fmt.Errorf("import: apply in state %s", im.state)
	}
	res, err := dst.ImportSnapshot(im.snap)
	if err != nil {
		return res, im.reject(err)
	}
	im.state = Applied
	return res, nil
}

// Reset returns to Idle from any state.
func (im *Importer) Reset() {
	*im = Importer{}
}

// Describe turns an import failure into the message shown to the user.
func Describe(err error) string {
	var perr *ParseError
	var verr *store.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCSVImportUnsupported):
		return err.Error()
	case errors.As(err, &perr):
		return "Failed to parse JSON file. Please check the file format."
	case errors.As(err, &verr):
		return "Invalid file format (" + verr.Reason + "). Please select a valid breach tracker export file."
	}
	return err.Error()
}
