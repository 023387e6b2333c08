package handle

import (
	"errors"
	"fmt"

	"github.com/alxcube/fsa-mock/pkg/access"
	"github.com/alxcube/fsa-mock/pkg/filesystem"
	"github.com/alxcube/fsa-mock/pkg/permissions"
)

// Exception names, matching the DOMException names the browser API throws.
const (
	NotFoundError            = "NotFoundError"
	TypeMismatchError        = "TypeMismatchError"
	QuotaExceededError       = "QuotaExceededError"
	InvalidModificationError = "InvalidModificationError"
	InvalidStateError        = "InvalidStateError"
	NotAllowedError          = "NotAllowedError"
	AbortError               = "AbortError"
	TypeError                = "TypeError"
	UnknownError             = "UnknownError"
)

// Exception is the error shape the handle layer surfaces: a DOMException
// name plus a message, wrapping the underlying core error so errors.Is
// still matches the sentinels.
type Exception struct {
	name  string
	cause error
}

// Name returns the DOMException name.
func (e *Exception) Name() string {
	return e.name
}

func (e *Exception) Error() string {
	return fmt.Sprintf("%s: %v", e.name, e.cause)
}

func (e *Exception) Unwrap() error {
	return e.cause
}

// NewException builds an Exception with an explicit name and cause.
func NewException(name string, cause error) *Exception {
	return &Exception{name: name, cause: cause}
}

// asException translates a core error into an Exception by sentinel.
// Errors that are already Exceptions pass through; anything unrecognized
// becomes UnknownError.
func asException(err error) error {
	if err == nil {
		return nil
	}

	var exception *Exception
	if errors.As(err, &exception) {
		return err
	}

	switch {
	case errors.Is(err, filesystem.ErrNotFound):
		return NewException(NotFoundError, err)
	case errors.Is(err, filesystem.ErrTypeMismatch):
		return NewException(TypeMismatchError, err)
	case errors.Is(err, filesystem.ErrQuotaExceeded):
		return NewException(QuotaExceededError, err)
	case errors.Is(err, filesystem.ErrInvalidModification), errors.Is(err, filesystem.ErrExists):
		return NewException(InvalidModificationError, err)
	case errors.Is(err, filesystem.ErrInvalidArgument):
		return NewException(TypeError, err)
	case errors.Is(err, permissions.ErrNotAllowed):
		return NewException(NotAllowedError, err)
	case errors.Is(err, permissions.ErrUnknownPath):
		return NewException(NotFoundError, err)
	case errors.Is(err, permissions.ErrInvalidMode), errors.Is(err, permissions.ErrInvalidState):
		return NewException(TypeError, err)
	case errors.Is(err, access.ErrClosed):
		return NewException(InvalidStateError, err)
	case errors.Is(err, access.ErrInvalidOffset),
		errors.Is(err, access.ErrInvalidSize),
		errors.Is(err, access.ErrMalformedCommand),
		errors.Is(err, ErrInvalidName):
		return NewException(TypeError, err)
	case errors.Is(err, access.ErrAborted):
		return NewException(AbortError, err)
	default:
		return NewException(UnknownError, err)
	}
}
