package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternal       = errors.New("internal server error")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Authentication failures. All of these collapse to the same generic
	// unauthorized response at the HTTP boundary; the distinction exists
	// for internal logging only.
	ErrCredentialsInvalid = errors.New("credentials are not valid")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrTokenExpired       = errors.New("token has expired")
	ErrNoCredential       = errors.New("no credential provided")

	// Configuration defects, fatal at startup.
	ErrInvalidDurationFormat = errors.New("invalid duration format")
	ErrUnknownTimeUnit       = errors.New("unknown time unit")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsAuthFailure reports whether err belongs to the authentication
// failure taxonomy.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrCredentialsInvalid) ||
		errors.Is(err, ErrPrincipalNotFound) ||
		errors.Is(err, ErrTokenInvalid) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrNoCredential)
}
