package catalog

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNotFound indicates no document matched the given id or slug
	ErrNotFound = errors.New("document not found")

	// ErrUnknownKind indicates an entity name outside the managed set
	ErrUnknownKind = errors.New("unknown entity kind")
)

// InputError represents a rejected field bag: a declared structured field
// (variants, items, specifications, features) arrived as text that does not
// parse as JSON. Only document creation surfaces it; updates fall back to
// the documented empty values instead.
type InputError struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s input: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("invalid %s input: field %q: %v", e.Kind, e.Field, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// DocumentError represents a failed catalog operation on one collection
type DocumentError struct {
	Kind       Kind
	Identifier string
	Op         string
	Err        error
}

func (e *DocumentError) Error() string {
	if e.Identifier == "" {
		return fmt.Sprintf("catalog %s failed for %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("catalog %s failed for %s %q: %v", e.Op, e.Kind, e.Identifier, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
