package access

import "errors"

var (
	// ErrClosed indicates an operation on a handle or sink after Close.
	// Closed is a terminal state; only Close itself tolerates it.
	//
	// Adapter mapping: InvalidStateError (TypeError for the sink)
	ErrClosed = errors.New("handle is closed")

	// ErrInvalidOffset indicates a negative read or write position.
	//
	// Adapter mapping: TypeError
	ErrInvalidOffset = errors.New("invalid offset")

	// ErrInvalidSize indicates a negative truncate size.
	//
	// Adapter mapping: TypeError
	ErrInvalidSize = errors.New("invalid size")

	// ErrMalformedCommand indicates a sink command missing a field its
	// shape requires (a write without data, a seek without a position, a
	// truncate without a size).
	//
	// Adapter mapping: TypeError
	ErrMalformedCommand = errors.New("malformed stream command")

	// ErrAborted is the sticky error recorded by Abort when no reason is
	// given.
	ErrAborted = errors.New("stream aborted")
)
