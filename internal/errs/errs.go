// Package errs defines the error taxonomy shared across pipeline stages.
// Callers classify failures with errors.Is against the sentinel values.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks a network or collaborator call failure.
	ErrTransport = errors.New("transport error")

	// ErrParse marks a malformed or JSON-less model response.
	ErrParse = errors.New("parse error")

	// ErrValidation marks invalid caller input (e.g. mismatched batch lengths).
	ErrValidation = errors.New("validation error")

	// ErrStorage marks a persistence failure.
	ErrStorage = errors.New("storage error")
)

// Transport wraps err as a transport failure for operation op.
func Transport(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrTransport, op, err)
}

// Parse wraps err as a parse failure for operation op.
func Parse(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrParse, op, err)
}

// Validation reports a caller input error.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Storage wraps err as a persistence failure for operation op.
func Storage(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
