package prune

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates an argument to Prune or an options value was
// rejected before any processing took place.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError names the argument that failed validation and why
type InvalidInputError struct {
	// Argument is "html", "options" or "whitelist"
	Argument string
	Reason   string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Argument, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(argument, reason string) error {
	return &InvalidInputError{
		Argument: argument,
		Reason:   reason,
	}
}
