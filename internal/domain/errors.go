package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("announcement not found")
	// ErrNotVisible is returned for listings that exist but are not public.
	// It matches ErrNotFound so callers cannot tell the two apart.
	ErrNotVisible = fmt.Errorf("%w: not publicly visible", ErrNotFound)
)

// ConstraintError reports a violated storage constraint such as a duplicate email.
type ConstraintError struct {
	Field string
	Err   error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violated on %s: %v", e.Field, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// ValidationError reports malformed input to a lifecycle transition or form.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a failure of the underlying store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
