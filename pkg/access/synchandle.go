// Package access implements the two file-access surfaces layered on the
// virtual filesystem: the synchronous random-access handle and the
// writable-stream sink that drives it.
package access

import (
	"fmt"
	"sync"

	"github.com/alxcube/fsa-mock/internal/bufutil"
	"github.com/alxcube/fsa-mock/pkg/filesystem"
)

// ReadWriteOptions carries the optional explicit position for Read and
// Write. A nil options value (or a nil At) means the operation uses the
// handle's cursor and advances it; an explicit At leaves the cursor
// where sequential access last put it.
type ReadWriteOptions struct {
	At *int64
}

// At builds options addressing an explicit position.
func At(offset int64) *ReadWriteOptions {
	return &ReadWriteOptions{At: &offset}
}

// SyncAccessHandle is a cursor-based random-access view over one file's
// content.
//
// The handle owns a private scratch buffer; reads, writes, and truncates
// act on that buffer and are invisible to the FileSystem until Flush,
// which persists the buffer through a plain WriteFile. Close makes the
// handle permanently inert without flushing.
//
// Quota:
// Growth is checked against the filesystem's free space plus the file's
// persisted size at handle construction: the handle's pending bytes
// compete only against the delta versus what the file already occupies
// on disk. If several handles coexist on one file, each accounts against
// that same original footprint; unflushed growth across handles is not
// coordinated.
type SyncAccessHandle struct {
	mu sync.Mutex

	fs    *filesystem.FileSystem
	entry *filesystem.FileEntry

	// buf is the private scratch buffer; cursor is the position used by
	// sequential (position-less) reads and writes.
	buf    []byte
	cursor int

	// originalSize is the file's persisted size at construction, the
	// offset term of every growth quota check.
	originalSize uint64

	closed bool
}

// NewSyncAccessHandle opens a handle on the file behind entry.
//
// With keepContent the scratch buffer starts as a copy of the file's
// current persisted content; without it the buffer starts empty, as for
// a writable stream that discards existing data. The entry must be a
// currently valid descriptor.
func NewSyncAccessHandle(fs *filesystem.FileSystem, entry *filesystem.FileEntry, keepContent bool) (*SyncAccessHandle, error) {
	handle := &SyncAccessHandle{
		fs:           fs,
		entry:        entry,
		buf:          []byte{},
		originalSize: entry.Size(),
	}

	if keepContent {
		data, err := fs.ReadFile(entry)
		if err != nil {
			return nil, err
		}
		handle.buf = data
	} else if !fs.IsValidDescriptor(entry) {
		return nil, fmt.Errorf("file %q: stale or invalid descriptor: %w", entry.FullPath(), filesystem.ErrNotFound)
	}

	return handle, nil
}

// GetSize returns the scratch buffer's current length, which may differ
// from the persisted file size until Flush.
func (h *SyncAccessHandle) GetSize() (uint64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, fmt.Errorf("getSize: %w", ErrClosed)
	}
	return uint64(len(h.buf)), nil
}

// Read copies bytes from the scratch buffer into dst, returning the
// number of bytes read.
//
// Without an explicit position the read starts at the cursor and
// advances it by the bytes actually read; reading at or past the end of
// the buffer reads nothing and parks the cursor at end-of-file. With an
// explicit position the cursor is left untouched. A negative position
// fails with ErrInvalidOffset.
func (h *SyncAccessHandle) Read(dst []byte, opts *ReadWriteOptions) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, fmt.Errorf("read: %w", ErrClosed)
	}

	start, explicit, err := h.position(opts, "read")
	if err != nil {
		return 0, err
	}

	if start >= len(h.buf) {
		if !explicit {
			h.cursor = len(h.buf)
		}
		return 0, nil
	}

	n := copy(dst, h.buf[start:])
	if !explicit {
		h.cursor = start + n
	}
	return n, nil
}

// Write copies src into the scratch buffer, returning the number of
// bytes written.
//
// Writing past the current end zero-fills the gap; content before the
// write position and beyond the written region is preserved. Growth is
// quota-checked (see the type comment). Without an explicit position the
// write starts at the cursor and advances it to the end of the written
// region; with an explicit position the cursor is untouched. A negative
// position fails with ErrInvalidOffset.
func (h *SyncAccessHandle) Write(src []byte, opts *ReadWriteOptions) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, fmt.Errorf("write: %w", ErrClosed)
	}

	start, explicit, err := h.position(opts, "write")
	if err != nil {
		return 0, err
	}

	end := start + len(src)
	if err := h.checkGrowth(end, "write"); err != nil {
		return 0, err
	}

	h.buf = bufutil.WriteAt(h.buf, src, start)
	if !explicit {
		h.cursor = end
	}
	return len(src), nil
}

// Truncate resizes the scratch buffer.
//
// Growing zero-fills the appended region (quota-checked); shrinking
// drops the tail, so content is not preserved across a shrink-then-
// regrow. A cursor beyond the new size is clamped to it. A negative size
// fails with ErrInvalidSize.
func (h *SyncAccessHandle) Truncate(size int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return fmt.Errorf("truncate: %w", ErrClosed)
	}
	if size < 0 {
		return fmt.Errorf("truncate to %d: %w", size, ErrInvalidSize)
	}

	if err := h.checkGrowth(int(size), "truncate"); err != nil {
		return err
	}

	h.buf = bufutil.Resize(h.buf, int(size))
	if h.cursor > len(h.buf) {
		h.cursor = len(h.buf)
	}
	return nil
}

// Flush persists the scratch buffer into the filesystem's content store
// for the handle's entry.
func (h *SyncAccessHandle) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return fmt.Errorf("flush: %w", ErrClosed)
	}
	return h.fs.WriteFile(h.entry, h.buf)
}

// Close marks the handle closed. No implicit flush happens; unflushed
// changes are discarded. Close is idempotent.
func (h *SyncAccessHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	return nil
}

// position resolves the effective start offset for a read or write and
// reports whether it was explicitly given. Caller holds mu.
func (h *SyncAccessHandle) position(opts *ReadWriteOptions, op string) (start int, explicit bool, err error) {
	if opts == nil || opts.At == nil {
		return h.cursor, false, nil
	}
	if *opts.At < 0 {
		return 0, true, fmt.Errorf("%s at %d: %w", op, *opts.At, ErrInvalidOffset)
	}
	return int(*opts.At), true, nil
}

// checkGrowth rejects a new buffer length that would not fit in the
// filesystem's free space plus the file's original persisted footprint.
// Caller holds mu.
func (h *SyncAccessHandle) checkGrowth(newLength int, op string) error {
	if newLength <= len(h.buf) {
		return nil
	}

	free := h.fs.FreeDiskSpace()
	if free == filesystem.Unlimited {
		return nil
	}

	if uint64(newLength) > free+h.originalSize {
		return fmt.Errorf("%s to %d bytes: %w", op, newLength, filesystem.ErrQuotaExceeded)
	}
	return nil
}
