package permissions

import "errors"

var (
	// ErrInvalidMode indicates a permission mode other than "read" or
	// "readwrite" was supplied.
	//
	// Adapter mapping: TypeError
	ErrInvalidMode = errors.New("invalid permission mode")

	// ErrInvalidState indicates a permission state other than "granted",
	// "denied", or "prompt" was supplied.
	//
	// Adapter mapping: TypeError
	ErrInvalidState = errors.New("invalid permission state")

	// ErrUnknownPath indicates the path is not registered in the
	// associated filesystem. Permissions only exist for live entries.
	//
	// Adapter mapping: TypeError (NotFoundError at the handle layer)
	ErrUnknownPath = errors.New("path not present in filesystem")

	// ErrNotAllowed indicates a gated operation ran while its required
	// permission was not in the granted state.
	//
	// Adapter mapping: NotAllowedError
	ErrNotAllowed = errors.New("permission not granted")
)
