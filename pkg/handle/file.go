package handle

import (
	"context"
	"time"

	"github.com/alxcube/fsa-mock/internal/bufutil"
	"github.com/alxcube/fsa-mock/pkg/access"
	"github.com/alxcube/fsa-mock/pkg/filesystem"
	"github.com/alxcube/fsa-mock/pkg/paths"
	"github.com/alxcube/fsa-mock/pkg/permissions"
)

// File is an immutable snapshot of a file's content and metadata, as
// returned by FileSystemFileHandle.GetFile.
type File struct {
	name         string
	lastModified time.Time
	data         []byte
}

// Name returns the file's own name.
func (f *File) Name() string {
	return f.name
}

// Size returns the snapshot's length in bytes.
func (f *File) Size() uint64 {
	return uint64(len(f.data))
}

// LastModified returns the file's modification time at snapshot.
func (f *File) LastModified() time.Time {
	return f.lastModified
}

// Bytes returns a copy of the snapshot's content.
func (f *File) Bytes() []byte {
	return bufutil.Clone(f.data)
}

// Text returns the snapshot's content as a string.
func (f *File) Text() string {
	return string(f.data)
}

// FileSystemFileHandle addresses one file. The handle holds the file's
// descriptor from creation time, so it goes stale if the file is removed,
// even if a file is later recreated at the same path.
type FileSystemFileHandle struct {
	FileSystemHandle

	entry *filesystem.FileEntry
}

// NewFileHandle builds a handle for the file at path. Fails with a
// NotFoundError Exception if no file exists there, TypeMismatchError if
// the path holds a directory.
func NewFileHandle(fs *filesystem.FileSystem, manager *permissions.Manager, validator EntryNameValidator, path string) (*FileSystemFileHandle, error) {
	entry, err := fs.GetFileDescriptor(path, false)
	if err != nil {
		return nil, asException(err)
	}

	return &FileSystemFileHandle{
		FileSystemHandle: FileSystemHandle{
			fs:        fs,
			manager:   manager,
			validator: validator,
			path:      path,
			kind:      filesystem.KindFile,
		},
		entry: entry,
	}, nil
}

// GetFile snapshots the file's current content and metadata. Requires
// read permission to be granted.
func (h *FileSystemFileHandle) GetFile() (*File, error) {
	if err := h.requireGranted(permissions.ModeRead); err != nil {
		return nil, err
	}

	data, err := h.fs.ReadFile(h.entry)
	if err != nil {
		return nil, asException(err)
	}

	return &File{
		name:         paths.Basename(h.path),
		lastModified: h.entry.LastModified(),
		data:         data,
	}, nil
}

// CreateWritableOptions configures CreateWritable.
type CreateWritableOptions struct {
	// KeepExistingData seeds the stream with the file's current content
	// instead of starting from an empty file.
	KeepExistingData bool
}

// CreateWritable opens a writable stream sink over the file, resolving a
// pending readwrite prompt first. Nothing reaches the filesystem until
// the sink is closed.
func (h *FileSystemFileHandle) CreateWritable(ctx context.Context, opts *CreateWritableOptions) (*access.WritableFileStreamSink, error) {
	keep := opts != nil && opts.KeepExistingData

	if err := h.resolveWrite(ctx); err != nil {
		return nil, err
	}

	accessHandle, err := access.NewSyncAccessHandle(h.fs, h.entry, keep)
	if err != nil {
		return nil, asException(err)
	}

	sink, err := access.NewWritableFileStreamSink(accessHandle, h.manager, h.path)
	if err != nil {
		return nil, asException(err)
	}
	return sink, nil
}

// CreateSyncAccessHandle opens a synchronous access handle over the
// file's current content, resolving a pending readwrite prompt first.
func (h *FileSystemFileHandle) CreateSyncAccessHandle(ctx context.Context) (*access.SyncAccessHandle, error) {
	if err := h.resolveWrite(ctx); err != nil {
		return nil, err
	}

	accessHandle, err := access.NewSyncAccessHandle(h.fs, h.entry, true)
	if err != nil {
		return nil, asException(err)
	}
	return accessHandle, nil
}

// resolveWrite requests readwrite permission and fails with a
// NotAllowedError Exception unless the answer is granted.
func (h *FileSystemFileHandle) resolveWrite(ctx context.Context) error {
	state, err := h.RequestPermission(ctx, permissions.ModeReadwrite)
	if err != nil {
		return err
	}
	if state != permissions.Granted {
		return h.requireGranted(permissions.ModeReadwrite)
	}
	return nil
}
