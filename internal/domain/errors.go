package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidInput    = errors.New("invalid input")
)

// RSVP workflow errors.
var (
	// ErrAlreadyExists is returned when an insert hits the unique
	// (event_id, user_id) constraint outside the update path.
	ErrAlreadyExists = errors.New("rsvp already exists for this event and user")
	// ErrCapacityExceeded is the sentinel wrapped by CapacityError.
	ErrCapacityExceeded = errors.New("event capacity exceeded")
	// ErrRateLimited is returned when a user submits too frequently.
	ErrRateLimited = errors.New("too many submissions, try again later")
)

// CapacityError reports a rejected admission along with how many spots remain.
// It unwraps to ErrCapacityExceeded so callers can match with errors.Is.
type CapacityError struct {
	Remaining int
}

func (e *CapacityError) Error() string {
	if e.Remaining == 1 {
		return "event is at capacity: 1 spot remaining"
	}
	return fmt.Sprintf("event is at capacity: %d spots remaining", e.Remaining)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// ValidationError carries field-level validation messages for a rejected
// submission. Field errors are resolved by the caller, not retried.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field error(s)", len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
