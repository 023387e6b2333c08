package access

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/alxcube/fsa-mock/internal/bufutil"
	"github.com/alxcube/fsa-mock/pkg/permissions"
)

// CommandType discriminates the three stream command shapes.
type CommandType string

const (
	CommandWrite    CommandType = "write"
	CommandSeek     CommandType = "seek"
	CommandTruncate CommandType = "truncate"
)

// Command is a tagged stream instruction.
//
// Shapes and their required fields:
//   - write: Data (Position optional)
//   - seek: Position
//   - truncate: Size
//
// A command missing a required field fails with ErrMalformedCommand, and
// that failure sticks (see WritableFileStreamSink).
type Command struct {
	Type     CommandType
	Data     any
	Position *uint64
	Size     *uint64
}

// Position builds an optional command position.
func Position(offset uint64) *uint64 {
	return &offset
}

// Size builds an optional command size.
func Size(size uint64) *uint64 {
	return &size
}

// WritableFileStreamSink sequences write/seek/truncate commands against
// a SyncAccessHandle, the way a writable file stream's underlying sink
// does.
//
// States:
// The sink starts open. The first error thrown by a Write call puts it
// in a sticky error state: every subsequent Write or Close re-returns
// that stored error until the sink is discarded. Close flushes and
// closes the underlying handle and is terminal. Abort closes the handle
// without flushing and records its reason as the sticky error; Abort
// itself never fails.
//
// Permission:
// Every Write call re-checks that readwrite permission for the sink's
// path is currently granted, failing with permissions.ErrNotAllowed
// otherwise.
type WritableFileStreamSink struct {
	mu sync.Mutex

	handle  *SyncAccessHandle
	manager *permissions.Manager
	path    string

	// size tracks the stream's view of the file length; writes past it
	// go through an explicit truncate-grow so gaps zero-fill exactly
	// like the handle's own truncate. cursor is the stream position.
	size   uint64
	cursor uint64

	closed    bool
	stickyErr error
}

// NewWritableFileStreamSink builds a sink over handle for the file at
// path, gated by manager.
func NewWritableFileStreamSink(handle *SyncAccessHandle, manager *permissions.Manager, path string) (*WritableFileStreamSink, error) {
	size, err := handle.GetSize()
	if err != nil {
		return nil, err
	}

	return &WritableFileStreamSink{
		handle:  handle,
		manager: manager,
		path:    path,
		size:    size,
	}, nil
}

// Write accepts a Command, a *Command, or a bare payload (bytes, string,
// reader, or anything printable), a bare payload being an implicit write
// at the current stream position.
//
// Any error returned here becomes the sink's sticky error.
func (s *WritableFileStreamSink) Write(ctx context.Context, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stickyErr != nil {
		return s.stickyErr
	}

	if err := s.write(ctx, payload); err != nil {
		s.stickyErr = err
		return err
	}
	return nil
}

func (s *WritableFileStreamSink) write(ctx context.Context, payload any) error {
	if s.closed {
		return fmt.Errorf("write on closed stream: %w", ErrClosed)
	}

	state, err := s.manager.GetState(s.path, permissions.ModeReadwrite)
	if err != nil {
		return err
	}
	if state != permissions.Granted {
		return fmt.Errorf("write to %q: %w", s.path, permissions.ErrNotAllowed)
	}

	switch command := payload.(type) {
	case Command:
		return s.dispatch(ctx, command)
	case *Command:
		if command == nil {
			return fmt.Errorf("nil command: %w", ErrMalformedCommand)
		}
		return s.dispatch(ctx, *command)
	default:
		return s.writeData(ctx, payload, nil)
	}
}

func (s *WritableFileStreamSink) dispatch(ctx context.Context, command Command) error {
	switch command.Type {
	case CommandWrite:
		if command.Data == nil {
			return fmt.Errorf("write command without data: %w", ErrMalformedCommand)
		}
		return s.writeData(ctx, command.Data, command.Position)

	case CommandSeek:
		if command.Position == nil {
			return fmt.Errorf("seek command without position: %w", ErrMalformedCommand)
		}
		s.cursor = *command.Position
		return nil

	case CommandTruncate:
		if command.Size == nil {
			return fmt.Errorf("truncate command without size: %w", ErrMalformedCommand)
		}
		return s.truncate(*command.Size)

	default:
		return fmt.Errorf("unknown command type %q: %w", command.Type, ErrMalformedCommand)
	}
}

// writeData coerces the payload and writes it at position (or the stream
// cursor), growing the file first when the write region extends past the
// tracked size so any gap zero-fills.
func (s *WritableFileStreamSink) writeData(ctx context.Context, data any, position *uint64) error {
	payload, err := coerceToBytes(ctx, data)
	if err != nil {
		return err
	}

	at := s.cursor
	if position != nil {
		at = *position
	}

	end := at + uint64(len(payload))
	if end > s.size {
		if err := s.handle.Truncate(int64(end)); err != nil {
			return err
		}
		s.size = end
	}

	if _, err := s.handle.Write(payload, At(int64(at))); err != nil {
		return err
	}

	s.cursor = end
	return nil
}

func (s *WritableFileStreamSink) truncate(size uint64) error {
	if err := s.handle.Truncate(int64(size)); err != nil {
		return err
	}

	s.size = size
	if s.cursor > size {
		s.cursor = size
	}
	return nil
}

// Close flushes the underlying handle and closes it. A sticky error is
// re-returned instead; closing twice fails with ErrClosed.
func (s *WritableFileStreamSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stickyErr != nil {
		return s.stickyErr
	}
	if s.closed {
		return fmt.Errorf("close on closed stream: %w", ErrClosed)
	}

	if err := s.handle.Flush(); err != nil {
		s.stickyErr = err
		return err
	}

	s.closed = true
	return s.handle.Close()
}

// Abort closes the underlying handle without flushing and records reason
// (or ErrAborted) as the sticky error. It never fails.
func (s *WritableFileStreamSink) Abort(reason error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reason == nil {
		reason = ErrAborted
	}

	_ = s.handle.Close()
	s.closed = true
	s.stickyErr = reason
}

// coerceToBytes turns a heterogeneous payload into bytes: binary data
// passes through (copied), readers are drained, strings are UTF-8 as-is,
// and anything else falls back to its printed form rather than failing.
func coerceToBytes(ctx context.Context, data any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch payload := data.(type) {
	case []byte:
		return bufutil.Clone(payload), nil
	case string:
		return []byte(payload), nil
	case io.Reader:
		return io.ReadAll(payload)
	default:
		return []byte(fmt.Sprint(payload)), nil
	}
}
