package orchestrators

import (
	"errors"
	"fmt"
)

// Command errors
var (
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("a member with this name and nickname already exists")
	ErrConfirmationRequired = errors.New("confirmation token does not match")
)

// errNoChanges aborts an Update without writing; callers treat it as success.
var errNoChanges = errors.New("no changes")

// ValidationError wraps input that was rejected before any mutation.
type ValidationError struct {
	Err error
}

// Error returns the underlying message.
// INVARIANT: message is never empty for a valid ValidationError.
func (e *ValidationError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes the domain error for errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error) error {
	return &ValidationError{Err: err}
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Err: fmt.Errorf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
