// Package fsamock bundles the virtual filesystem, the permission
// manager, and the handle adapters into one mock instance shaped like
// the browser's file-system-access entry points: pickers, an origin
// private root, and the test levers that drive them.
package fsamock

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alxcube/fsa-mock/internal/logger"
	"github.com/alxcube/fsa-mock/pkg/filesystem"
	"github.com/alxcube/fsa-mock/pkg/handle"
	"github.com/alxcube/fsa-mock/pkg/permissions"
)

// ErrNoPickerResult is the cause of the AbortError a picker throws when
// no picker provider is registered or the provider returns nothing,
// which models the user dismissing the dialog.
var ErrNoPickerResult = errors.New("picker dismissed")

// PickFunc supplies the paths a picker call resolves to. It stands in
// for the user driving the real dialog; it may block until the test
// supplies an answer.
type PickFunc func(ctx context.Context) ([]string, error)

// Option configures a Mock at construction.
type Option func(*options)

type options struct {
	totalSpace       uint64
	provider         permissions.Provider
	forbiddenPattern string
}

// WithTotalDiskSpace caps the virtual disk. The default is an unlimited
// disk.
func WithTotalDiskSpace(total uint64) Option {
	return func(o *options) { o.totalSpace = total }
}

// WithPermissionProvider overrides the default permission provider.
func WithPermissionProvider(provider permissions.Provider) Option {
	return func(o *options) { o.provider = provider }
}

// WithForbiddenNamePattern overrides the entry-name validator's
// forbidden-characters pattern.
func WithForbiddenNamePattern(pattern string) Option {
	return func(o *options) { o.forbiddenPattern = pattern }
}

// Mock is one self-contained file-system-access world.
type Mock struct {
	fs        *filesystem.FileSystem
	manager   *permissions.Manager
	validator handle.EntryNameValidator

	// mu protects the picker providers.
	mu              sync.Mutex
	openFilePicker  PickFunc
	saveFilePicker  PickFunc
	directoryPicker PickFunc
}

// New builds a Mock with an empty filesystem.
func New(opts ...Option) (*Mock, error) {
	o := options{totalSpace: filesystem.Unlimited}
	for _, opt := range opts {
		opt(&o)
	}

	validator, err := handle.NewEntryNameValidator(o.forbiddenPattern)
	if err != nil {
		return nil, err
	}

	fs := filesystem.New(o.totalSpace)
	return &Mock{
		fs:        fs,
		manager:   permissions.NewManager(fs, o.provider),
		validator: validator,
	}, nil
}

// ============================================================================
// Component Access
// ============================================================================

// FileSystem exposes the underlying filesystem for direct fixture setup.
func (m *Mock) FileSystem() *filesystem.FileSystem {
	return m.fs
}

// PermissionsManager exposes the underlying permission manager.
func (m *Mock) PermissionsManager() *permissions.Manager {
	return m.manager
}

// ============================================================================
// Entry Points
// ============================================================================

// Root returns a directory handle on the filesystem root, the analogue
// of the origin private file system root. Its permissions are granted
// for both modes, as the browser grants them without prompting.
func (m *Mock) Root() (*handle.FileSystemDirectoryHandle, error) {
	if err := m.manager.SetState("", permissions.ModeReadwrite, permissions.Granted); err != nil {
		return nil, err
	}
	return handle.NewDirectoryHandle(m.fs, m.manager, m.validator, "")
}

// ShowOpenFilePicker resolves the open-file picker provider and returns
// a handle per picked file, each with read permission granted. With no
// provider, or a provider returning no paths, it fails with an
// AbortError Exception.
func (m *Mock) ShowOpenFilePicker(ctx context.Context) ([]*handle.FileSystemFileHandle, error) {
	picked, err := m.pick(ctx, m.pickerLocked(&m.openFilePicker))
	if err != nil {
		return nil, err
	}

	handles := make([]*handle.FileSystemFileHandle, 0, len(picked))
	for _, path := range picked {
		if err := m.manager.SetState(path, permissions.ModeRead, permissions.Granted); err != nil {
			return nil, err
		}
		fileHandle, err := handle.NewFileHandle(m.fs, m.manager, m.validator, path)
		if err != nil {
			return nil, err
		}
		handles = append(handles, fileHandle)
	}

	logger.Debug("fsamock: open picker resolved to %d file(s)", len(handles))
	return handles, nil
}

// ShowSaveFilePicker resolves the save-file picker provider to a single
// path, creating the file there if none exists, and returns its handle
// with readwrite permission granted.
func (m *Mock) ShowSaveFilePicker(ctx context.Context) (*handle.FileSystemFileHandle, error) {
	picked, err := m.pick(ctx, m.pickerLocked(&m.saveFilePicker))
	if err != nil {
		return nil, err
	}

	path := picked[0]
	if _, err := m.fs.GetFileDescriptor(path, true); err != nil {
		return nil, err
	}
	if err := m.manager.SetState(path, permissions.ModeReadwrite, permissions.Granted); err != nil {
		return nil, err
	}

	logger.Debug("fsamock: save picker resolved to %q", path)
	return handle.NewFileHandle(m.fs, m.manager, m.validator, path)
}

// ShowDirectoryPicker resolves the directory picker provider to a single
// path and returns its handle with read permission granted.
func (m *Mock) ShowDirectoryPicker(ctx context.Context) (*handle.FileSystemDirectoryHandle, error) {
	picked, err := m.pick(ctx, m.pickerLocked(&m.directoryPicker))
	if err != nil {
		return nil, err
	}

	path := picked[0]
	if err := m.manager.SetState(path, permissions.ModeRead, permissions.Granted); err != nil {
		return nil, err
	}

	logger.Debug("fsamock: directory picker resolved to %q", path)
	return handle.NewDirectoryHandle(m.fs, m.manager, m.validator, path)
}

// ============================================================================
// Test Levers
// ============================================================================

// SetOpenFilePicker registers (or, with nil, removes) the provider
// behind ShowOpenFilePicker.
func (m *Mock) SetOpenFilePicker(fn PickFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openFilePicker = fn
}

// SetSaveFilePicker registers the provider behind ShowSaveFilePicker.
func (m *Mock) SetSaveFilePicker(fn PickFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveFilePicker = fn
}

// SetDirectoryPicker registers the provider behind ShowDirectoryPicker.
func (m *Mock) SetDirectoryPicker(fn PickFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.directoryPicker = fn
}

// SetTotalDiskSpace adjusts the virtual disk capacity.
func (m *Mock) SetTotalDiskSpace(total uint64) error {
	return m.fs.SetTotalDiskSpace(total)
}

// SetPermissionState forces (path, mode) to a state, bypassing prompts.
func (m *Mock) SetPermissionState(path string, mode permissions.Mode, state permissions.State) error {
	return m.manager.SetState(path, mode, state)
}

// SetPromptPermissionProvider installs the prompt override used when a
// handle requests a permission currently in the "prompt" state.
func (m *Mock) SetPromptPermissionProvider(fn permissions.PromptFunc) {
	m.manager.SetPromptPermissionProvider(fn)
}

// Purge drops every entry and all content, keeping the disk capacity.
func (m *Mock) Purge() {
	m.fs.Purge()
}

// ============================================================================
// Internals
// ============================================================================

func (m *Mock) pickerLocked(slot *PickFunc) PickFunc {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *slot
}

// pick runs a picker provider and normalizes "nothing picked" into the
// dismissal AbortError.
func (m *Mock) pick(ctx context.Context, picker PickFunc) ([]string, error) {
	if picker == nil {
		return nil, handle.NewException(handle.AbortError, ErrNoPickerResult)
	}

	picked, err := picker(ctx)
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return nil, handle.NewException(handle.AbortError, fmt.Errorf("provider returned no paths: %w", ErrNoPickerResult))
	}
	return picked, nil
}
