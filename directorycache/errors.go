package directorycache

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrUnknownAttribute is returned by Get for attributes the record does
	// not carry.
	ErrUnknownAttribute = goerrors.New("unknown attribute", goerrors.CategoryNotFound).
				WithTextCode("UNKNOWN_ATTRIBUTE")

	// ErrNewRecord is returned by operations that need a persisted entry.
	ErrNewRecord = goerrors.New("record does not exist in the directory yet", goerrors.CategoryValidation).
			WithTextCode("NEW_RECORD")

	// ErrNotSupported is returned by operations the directory layer does not
	// implement.
	ErrNotSupported = goerrors.New("operation not supported", goerrors.CategoryInternal).
			WithTextCode("NOT_SUPPORTED")

	// ErrUnknownType is returned when a record type name is not registered.
	ErrUnknownType = goerrors.New("unknown record type", goerrors.CategoryNotFound).
			WithTextCode("UNKNOWN_TYPE")

	// ErrNotFound is returned by Reload when the entry no longer exists.
	ErrNotFound = goerrors.New("entry not found", goerrors.CategoryNotFound).
			WithTextCode("NOT_FOUND")

	// ErrAuthenticationFailed is returned when credentials are rejected.
	ErrAuthenticationFailed = goerrors.New("authentication failed", goerrors.CategoryAuth).
				WithTextCode("AUTHENTICATION_FAILED")
)

var errNotConnected = errors.New("directory not connected")

// IsValidationError reports whether err was caused by malformed caller input.
func IsValidationError(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}

// IsRemoteFailure reports whether err was caused by the directory rejecting
// or failing a write.
func IsRemoteFailure(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryExternal)
}

func validationError(msg string, errs ...error) error {
	if len(errs) == 0 {
		return goerrors.New(msg, goerrors.CategoryValidation).WithTextCode("VALIDATION_ERROR")
	}
	return goerrors.Wrap(errors.Join(errs...), goerrors.CategoryValidation, msg).WithTextCode("VALIDATION_ERROR")
}

func remoteFailure(err error, op, dn string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, fmt.Sprintf("%s %s", op, dn)).
		WithTextCode("REMOTE_FAILURE")
}

// withDetail wraps a sentinel so that errors.Is keeps matching it.
func withDetail(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
