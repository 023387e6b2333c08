package handle

import "errors"

var (
	// ErrInvalidName indicates an entry name rejected by the name
	// validator (".", "..", empty, or a forbidden character).
	//
	// Exception mapping: TypeError
	ErrInvalidName = errors.New("invalid entry name")
)
