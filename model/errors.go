package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for entity-level invariant violations. The engine package
// re-exports these so callers have a single identity to test with errors.Is.
var (
	// ErrValidation is returned for malformed input: missing required
	// fields, negative amounts, mismatched identifiers.
	ErrValidation = errors.New("validation error")

	// ErrInvalidTransition is returned when an appointment status change
	// violates the Waiting -> InService -> Done machine.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidState is returned when an operation violates a state
	// invariant (double cancellation, discount driving a total negative,
	// closing without a computed total).
	ErrInvalidState = errors.New("invalid state")

	// ErrNotComputed is returned when a lazily computed total or closing
	// balance is read before being computed.
	ErrNotComputed = errors.New("total not yet computed")

	// ErrNotSettled is returned when a payment method is read before the
	// account has been settled.
	ErrNotSettled = errors.New("account not yet settled")
)

// InvalidTransitionError carries the offending status pair.
type InvalidTransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func invalidStatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}
