package store

import (
	"errors"
	"fmt"
)

// ErrPersistenceUnavailable marks a backend read/write failure. The store
// recovers from it by continuing in memory; callers only see it through
// SaveResult and Degraded.
var ErrPersistenceUnavailable = errors.New("persistence unavailable")

// ValidationError rejects a snapshot whose shape is wrong. Nothing is written.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid snapshot: %s", e.Reason)
}

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// SaveResult is the best-effort outcome of a mutation.
type SaveResult int

const (
	Saved SaveResult = iota
	MemoryOnly
)

func (r SaveResult) String() string {
	if r == MemoryOnly {
		return "memory-only"
	}
	return "saved"
}
