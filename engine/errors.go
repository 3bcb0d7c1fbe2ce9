/*
errors.go - Centralized error types for the orchestration engine

PURPOSE:
  All engine failure categories in one place. Entity-level invariant errors
  live in the model package; the engine re-exports them so callers test
  every failure with errors.Is against a single identity.

ERROR CATEGORIES:
  1. Authorization - PermissionDenied, never retried
  2. Validation - malformed input, never partially applied
  3. State - invalid transition or invariant violation
  4. Lookup - referenced id does not exist
  5. Queue - popping an empty secondary queue
  6. I/O - persistence and statement writing failures, wrapped with %w
*/
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gustavoponcell/Barbearia/model"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPermissionDenied is returned when the caller's role does not
	// satisfy the operation's capability requirement.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a referenced entity id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyQueue is returned when popping an empty secondary queue.
	// Callers decide whether this is an error or a normal condition.
	ErrEmptyQueue = errors.New("secondary queue is empty")

	// Entity-level sentinels, re-exported from model for a single identity.
	ErrValidation        = model.ErrValidation
	ErrInvalidTransition = model.ErrInvalidTransition
	ErrInvalidState      = model.ErrInvalidState
	ErrNotComputed       = model.ErrNotComputed
	ErrNotSettled        = model.ErrNotSettled
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PermissionError carries the human-readable denial reason.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string {
	return "permission denied: " + e.Reason
}

func (e *PermissionError) Unwrap() error { return ErrPermissionDenied }

// NotFoundError identifies what was looked up and missed.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsPermissionDenied reports whether err is an authorization failure.
func IsPermissionDenied(err error) bool { return errors.Is(err, ErrPermissionDenied) }

// IsNotFound reports whether err indicates a missing entity.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func notFound(kind string, id uuid.UUID) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// notFoundf covers lookups keyed by something other than an id, such as
// a ledger date.
func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func validationErr(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func invalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}
