package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrTerminalState matches every *TerminalStateError via errors.Is.
	ErrTerminalState = errors.New("order is in a terminal state")
	// ErrTimelineDiverged reports a broken status/timeline invariant.
	ErrTimelineDiverged = errors.New("order timeline diverged from order status")
)

// ValidationError describes input outside the accepted domain. Nothing is
// written when it is returned, so the call is safe to retry with corrected input.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TerminalStateError is returned for any transition requested on a terminal order.
type TerminalStateError struct {
	OrderID string
	Status  Status
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("order %s is %s and cannot change status", e.OrderID, e.Status)
}

func (e *TerminalStateError) Is(target error) bool {
	return target == ErrTerminalState
}

func invalid(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}
