// ============================================================================
// internal/shared/errors.go
// Domain error taxonomy shared by ingestion, reconciliation, and the API
// ============================================================================

package shared

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates an operation targeted a record that does not exist.
var ErrNotFound = errors.New("record not found")

// ValidationError indicates a malformed or out-of-range field. Row is
// 1-based and zero when the error did not originate from a tabular batch.
type ValidationError struct {
	Row    int
	Field  string
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: invalid %s (%v): %s", e.Row, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// NewValidationError builds a ValidationError for a non-batch context.
func NewValidationError(field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// ReferenceNotFoundError indicates a natural-key lookup failed, e.g. a mark
// row referencing an unknown roll number.
type ReferenceNotFoundError struct {
	Row int
	Key string
}

func (e *ReferenceNotFoundError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: student with roll number %q not found", e.Row, e.Key)
	}
	return fmt.Sprintf("student with roll number %q not found", e.Key)
}

// DuplicateKeyError indicates a natural-key collision, either within one
// ingestion batch or against an existing record.
type DuplicateKeyError struct {
	Keys []string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate roll numbers: %s", strings.Join(e.Keys, ", "))
}

// StoreError wraps an underlying persistence failure. It is opaque
// passthrough: callers never retry, they report.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// WrapStoreError wraps err as a StoreError unless it is nil or already part
// of the domain taxonomy.
func WrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var dup *DuplicateKeyError
	if errors.As(err, &dup) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
