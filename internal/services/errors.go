package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Handlers map them with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrForbidden          = errors.New("only the author may change this recipe")
	ErrSelfReference      = errors.New("cannot subscribe to yourself")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRelationNotFound is the not-found variant for a missing bookmark or
	// subscription whose target itself exists.
	ErrRelationNotFound = fmt.Errorf("%w: relation does not exist", ErrNotFound)
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
