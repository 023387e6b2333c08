// Package handle adapts the virtual filesystem and permission layers to
// the browser API's handle shape: file handles, directory handles, and
// DOMException-named errors. Handles are thin: they validate entry names,
// gate operations on the permission state for their path, and translate
// core sentinels into Exceptions at the boundary.
package handle

import (
	"context"
	"fmt"

	"github.com/alxcube/fsa-mock/pkg/filesystem"
	"github.com/alxcube/fsa-mock/pkg/paths"
	"github.com/alxcube/fsa-mock/pkg/permissions"
)

// Handle is the surface common to file and directory handles.
type Handle interface {
	Kind() filesystem.Kind
	Name() string
	Path() string
}

// FileSystemHandle carries the state and behavior shared by both handle
// kinds. It is embedded, never used on its own.
type FileSystemHandle struct {
	fs        *filesystem.FileSystem
	manager   *permissions.Manager
	validator EntryNameValidator
	path      string
	kind      filesystem.Kind
}

// Kind reports whether the handle addresses a file or a directory.
func (h *FileSystemHandle) Kind() filesystem.Kind {
	return h.kind
}

// Name returns the entry's own name. The root directory's name is the
// empty string.
func (h *FileSystemHandle) Name() string {
	return paths.Basename(h.path)
}

// Path returns the handle's full path within its filesystem.
func (h *FileSystemHandle) Path() string {
	return h.path
}

// IsSameEntry reports whether other addresses the same entry: same kind,
// same path.
func (h *FileSystemHandle) IsSameEntry(other Handle) bool {
	if other == nil {
		return false
	}
	return h.kind == other.Kind() && h.path == other.Path()
}

// QueryPermission returns the current permission state for the handle's
// path without prompting.
func (h *FileSystemHandle) QueryPermission(mode permissions.Mode) (permissions.State, error) {
	state, err := h.manager.GetState(h.path, mode)
	if err != nil {
		return "", asException(err)
	}
	return state, nil
}

// RequestPermission returns the permission state for the handle's path,
// resolving a pending "prompt" through the manager's prompt pipeline.
func (h *FileSystemHandle) RequestPermission(ctx context.Context, mode permissions.Mode) (permissions.State, error) {
	state, err := h.manager.RequestPermission(ctx, h.path, mode)
	if err != nil {
		return "", asException(err)
	}
	return state, nil
}

// Remove deletes the handle's own entry. A directory with children is
// only removed when recursive is set.
func (h *FileSystemHandle) Remove(recursive bool) error {
	if err := h.requireGranted(permissions.ModeReadwrite); err != nil {
		return err
	}
	return asException(h.fs.Remove(h.path, recursive))
}

// requireGranted fails with a NotAllowedError Exception unless the
// handle's path currently has mode granted.
func (h *FileSystemHandle) requireGranted(mode permissions.Mode) error {
	state, err := h.manager.GetState(h.path, mode)
	if err != nil {
		return asException(err)
	}
	if state != permissions.Granted {
		return asException(fmt.Errorf("%s on %q is %s: %w", mode, h.path, state, permissions.ErrNotAllowed))
	}
	return nil
}
