package scheduling

import (
	"errors"

	"bookwise/backend/internal/store"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrOutsideAvailability = errors.New("requested time is outside provider availability")
	ErrForbidden           = errors.New("caller is not allowed to change this appointment")
	ErrInvalidTransition   = errors.New("appointment status does not allow this change")
)

// ValidationError is an InvalidInput rejection; it matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// transitionError keeps ErrInvalidTransition matchable while carrying a specific message.
type transitionError struct {
	msg string
}

func (e *transitionError) Error() string {
	return e.msg
}

func (e *transitionError) Unwrap() error {
	return ErrInvalidTransition
}

func invalidTransition(msg string) error {
	return &transitionError{msg: msg}
}

// Reason classifies an engine error for logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrOutsideAvailability):
		return "outside_availability"
	case errors.Is(err, store.ErrConflict):
		return "conflict"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "error"
	}
}
