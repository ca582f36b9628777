package bisque

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrValueDoesNotMatch indicates an input had no valid mapping to the
	// target type. This is the only failure kind the conversion layer
	// itself produces; parse errors from collaborating libraries are
	// carried as its cause.
	ErrValueDoesNotMatch = errors.New("value does not match")

	// ErrDuplicateField indicates a document codec was declared with two
	// fields sharing the same BSON key.
	ErrDuplicateField = errors.New("duplicate field")

	// ErrNotDocument indicates a document-shaped conversion received a
	// BSON value that is not an embedded document.
	ErrNotDocument = errors.New("not a document")
)

// MatchError reports an input that failed to convert.
// It wraps ErrValueDoesNotMatch and carries the offending value.
type MatchError struct {
	Value any   // Offending input (string key or BSON value)
	Cause error // Original error from the underlying parse, if any
}

func (e *MatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("value does not match: %v: %v", e.Value, e.Cause)
	}
	return fmt.Sprintf("value does not match: %v", e.Value)
}

func (e *MatchError) Unwrap() error {
	return ErrValueDoesNotMatch
}

// FieldError reports a failed per-field conversion inside a document codec.
// Unwrap returns the component's error verbatim so errors.Is/As see through
// the field context.
type FieldError struct {
	Field string // BSON key of the failing field
	Cause error  // Component codec's error, unchanged
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Cause)
}

func (e *FieldError) Unwrap() error {
	return e.Cause
}

// newMatchError creates a MatchError for an input with no valid mapping.
func newMatchError(value any) error {
	return &MatchError{Value: value}
}

// newMatchErrorCause creates a MatchError carrying the underlying parse error.
func newMatchErrorCause(value any, cause error) error {
	return &MatchError{Value: value, Cause: cause}
}

// newFieldError creates a FieldError wrapping a component failure.
func newFieldError(field string, cause error) error {
	return &FieldError{Field: field, Cause: cause}
}
