package handle

import (
	"fmt"

	"github.com/alxcube/fsa-mock/pkg/filesystem"
	"github.com/alxcube/fsa-mock/pkg/paths"
	"github.com/alxcube/fsa-mock/pkg/permissions"
)

// FileSystemDirectoryHandle addresses one directory and mints handles
// for its children. Child lookups validate the requested name before
// touching the filesystem, and a handle minted here inherits the
// directory's current permission values.
type FileSystemDirectoryHandle struct {
	FileSystemHandle
}

// NewDirectoryHandle builds a handle for the directory at path. Fails
// with a NotFoundError Exception if nothing exists there,
// TypeMismatchError if the path holds a file.
func NewDirectoryHandle(fs *filesystem.FileSystem, manager *permissions.Manager, validator EntryNameValidator, path string) (*FileSystemDirectoryHandle, error) {
	if _, err := fs.GetDirectoryDescriptor(path, false); err != nil {
		return nil, asException(err)
	}

	return &FileSystemDirectoryHandle{
		FileSystemHandle: FileSystemHandle{
			fs:        fs,
			manager:   manager,
			validator: validator,
			path:      path,
			kind:      filesystem.KindDirectory,
		},
	}, nil
}

// GetFileHandle returns a handle for the named child file, creating the
// file when create is set. Lookup requires granted read permission;
// creation requires granted readwrite.
func (h *FileSystemDirectoryHandle) GetFileHandle(name string, create bool) (*FileSystemFileHandle, error) {
	if err := h.checkChildAccess(name, true, create); err != nil {
		return nil, err
	}

	childPath := paths.Child(h.path, name)
	existed := h.fs.Exists(childPath)

	if _, err := h.fs.GetFileDescriptor(childPath, create); err != nil {
		return nil, asException(err)
	}

	// A freshly created entry starts from this directory's effective
	// permission instead of the provider's defaults.
	if !existed {
		if err := h.manager.Duplicate(h.path, childPath); err != nil {
			return nil, asException(err)
		}
	}

	return NewFileHandle(h.fs, h.manager, h.validator, childPath)
}

// GetDirectoryHandle returns a handle for the named child directory,
// creating it when create is set. Same permission requirements as
// GetFileHandle.
func (h *FileSystemDirectoryHandle) GetDirectoryHandle(name string, create bool) (*FileSystemDirectoryHandle, error) {
	if err := h.checkChildAccess(name, false, create); err != nil {
		return nil, err
	}

	childPath := paths.Child(h.path, name)
	existed := h.fs.Exists(childPath)

	if _, err := h.fs.GetDirectoryDescriptor(childPath, create); err != nil {
		return nil, asException(err)
	}

	if !existed {
		if err := h.manager.Duplicate(h.path, childPath); err != nil {
			return nil, asException(err)
		}
	}

	return NewDirectoryHandle(h.fs, h.manager, h.validator, childPath)
}

// RemoveEntry deletes the named child. A child directory with children
// of its own is only removed when recursive is set. Requires granted
// readwrite permission.
func (h *FileSystemDirectoryHandle) RemoveEntry(name string, recursive bool) error {
	if !h.validator.IsValidName(name, false) {
		return asException(fmt.Errorf("name %q: %w", name, ErrInvalidName))
	}
	if err := h.requireGranted(permissions.ModeReadwrite); err != nil {
		return err
	}
	return asException(h.fs.Remove(paths.Child(h.path, name), recursive))
}

// Entries returns a handle for every direct child, sorted by path.
// Requires granted read permission.
func (h *FileSystemDirectoryHandle) Entries() ([]Handle, error) {
	if err := h.requireGranted(permissions.ModeRead); err != nil {
		return nil, err
	}

	children := h.fs.GetChildEntries(h.path)
	handles := make([]Handle, 0, len(children))
	for _, child := range children {
		switch child.Entry.Kind() {
		case filesystem.KindFile:
			fileHandle, err := NewFileHandle(h.fs, h.manager, h.validator, child.Path)
			if err != nil {
				return nil, err
			}
			handles = append(handles, fileHandle)
		case filesystem.KindDirectory:
			directoryHandle, err := NewDirectoryHandle(h.fs, h.manager, h.validator, child.Path)
			if err != nil {
				return nil, err
			}
			handles = append(handles, directoryHandle)
		}
	}
	return handles, nil
}

// Keys returns the names of every direct child, sorted. Requires granted
// read permission.
func (h *FileSystemDirectoryHandle) Keys() ([]string, error) {
	if err := h.requireGranted(permissions.ModeRead); err != nil {
		return nil, err
	}

	childPaths := h.fs.GetChildPaths(h.path)
	names := make([]string, 0, len(childPaths))
	for _, childPath := range childPaths {
		names = append(names, paths.Basename(childPath))
	}
	return names, nil
}

// Resolve returns the relative path segments from this directory down to
// possibleDescendant, an empty slice when the two are the same entry, or
// nil when possibleDescendant is not below this directory.
func (h *FileSystemDirectoryHandle) Resolve(possibleDescendant Handle) []string {
	if possibleDescendant == nil {
		return nil
	}
	if h.IsSameEntry(possibleDescendant) {
		return []string{}
	}
	if !paths.IsDescendant(possibleDescendant.Path(), h.path) {
		return nil
	}

	segments := paths.Split(possibleDescendant.Path())
	return segments[paths.Depth(h.path):]
}

// checkChildAccess validates a child name and the permission the lookup
// needs: readwrite when the call may create, read otherwise.
func (h *FileSystemDirectoryHandle) checkChildAccess(name string, isFileName, create bool) error {
	if !h.validator.IsValidName(name, isFileName) {
		return asException(fmt.Errorf("name %q: %w", name, ErrInvalidName))
	}

	mode := permissions.ModeRead
	if create {
		mode = permissions.ModeReadwrite
	}
	return h.requireGranted(mode)
}
