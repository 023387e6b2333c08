package permissions

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/alxcube/fsa-mock/internal/logger"
	"github.com/alxcube/fsa-mock/pkg/filesystem"
	"github.com/alxcube/fsa-mock/pkg/paths"
)

// PromptFunc overrides the provider's default prompt resolver.
type PromptFunc func(ctx context.Context, mode Mode, path string) (State, error)

// Manager maintains one Permission per path and wires the inheritance
// hierarchy between them.
//
// Hierarchy:
// Permissions are created lazily, on first query or set. A new path's
// Permission is seeded from the provider's initial values, then, unless
// the path is the root, overwritten with the parent's current values and
// subscribed to the parent's future changes for both modes. State changes
// therefore cascade from an ancestor to every already-created descendant,
// while a descendant created later starts from a snapshot of the
// ancestor's value at creation time.
//
// Prompt Resolution:
// RequestPermission resolves a "prompt" state through the override
// callback if one is set, otherwise through the provider. The
// read-resolve-write sequence is a critical section per (path, mode):
// concurrent requests are collapsed into a single resolution via
// singleflight, so two racing prompts can never commit different
// terminal values.
type Manager struct {
	fs       *filesystem.FileSystem
	provider Provider

	// mu protects permissions and override.
	mu          sync.Mutex
	permissions map[string]*Permission
	override    PromptFunc

	prompts singleflight.Group
}

// NewManager creates a Manager over fs using the given provider. A nil
// provider falls back to DefaultProvider.
func NewManager(fs *filesystem.FileSystem, provider Provider) *Manager {
	if provider == nil {
		provider = DefaultProvider()
	}

	return &Manager{
		fs:          fs,
		provider:    provider,
		permissions: make(map[string]*Permission),
	}
}

// ============================================================================
// Queries
// ============================================================================

// GetStatus returns a Status bound to the path's Permission for the given
// mode. Fails if the mode is invalid or the path is absent from the
// filesystem.
func (m *Manager) GetStatus(path string, mode Mode) (*Status, error) {
	permission, err := m.resolve(path, mode)
	if err != nil {
		return nil, err
	}
	return &Status{path: path, mode: mode, permission: permission}, nil
}

// GetState returns the current state for (path, mode). Same validation
// as GetStatus.
func (m *Manager) GetState(path string, mode Mode) (State, error) {
	permission, err := m.resolve(path, mode)
	if err != nil {
		return "", err
	}
	return permission.Get(mode)
}

// resolve validates (path, mode) and returns the lazily created
// Permission for path.
func (m *Manager) resolve(path string, mode Mode) (*Permission, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("mode %q: %w", mode, ErrInvalidMode)
	}
	if !m.fs.Exists(path) {
		return nil, fmt.Errorf("path %q: %w", path, ErrUnknownPath)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findOrCreatePermissionLocked(path), nil
}

// ============================================================================
// Mutation
// ============================================================================

// SetState assigns state to (path, mode). The assignment cascades to
// every already-created descendant Permission through their parent
// subscriptions.
func (m *Manager) SetState(path string, mode Mode, state State) error {
	if !state.Valid() {
		return fmt.Errorf("state %q: %w", state, ErrInvalidState)
	}

	permission, err := m.resolve(path, mode)
	if err != nil {
		return err
	}

	logger.Debug("permissions: set %s on %q to %s", mode, path, state)
	return permission.Set(mode, state)
}

// Duplicate copies both mode values from one path's Permission onto
// another's. Used when a new handle is minted for an entry so it starts
// from its directory's effective permission instead of defaulting to
// "prompt".
func (m *Manager) Duplicate(fromPath, toPath string) error {
	from, err := m.resolve(fromPath, ModeRead)
	if err != nil {
		return err
	}
	to, err := m.resolve(toPath, ModeRead)
	if err != nil {
		return err
	}

	to.SetRead(from.GetRead())
	to.SetReadwrite(from.GetReadwrite())
	return nil
}

// SetPromptPermissionProvider installs (or, with nil, removes) the prompt
// override callback used by RequestPermission.
func (m *Manager) SetPromptPermissionProvider(fn PromptFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.override = fn
}

// RequestPermission returns the current state for (path, mode), resolving
// it through the prompt pipeline if it is currently "prompt".
//
// A non-prompt state is returned as-is without invoking any resolver. A
// prompt state is resolved through the override callback if set,
// otherwise the provider's Prompt; the resolved value is stored (which
// cascades to descendants) and returned. Concurrent requests for the same
// (path, mode) share a single resolution.
func (m *Manager) RequestPermission(ctx context.Context, path string, mode Mode) (State, error) {
	permission, err := m.resolve(path, mode)
	if err != nil {
		return "", err
	}

	current, err := permission.Get(mode)
	if err != nil {
		return "", err
	}
	if current != Prompt {
		return current, nil
	}

	key := path + "\x00" + string(mode)
	resolved, err, _ := m.prompts.Do(key, func() (any, error) {
		// Re-check under the flight: an earlier resolution or an explicit
		// SetState may have landed since the caller observed "prompt".
		state, err := permission.Get(mode)
		if err != nil {
			return nil, err
		}
		if state != Prompt {
			return state, nil
		}

		m.mu.Lock()
		override := m.override
		m.mu.Unlock()

		var answer State
		if override != nil {
			answer, err = override(ctx, mode, path)
		} else {
			answer, err = m.provider.Prompt(ctx, mode, m.fs, path)
		}
		if err != nil {
			return nil, err
		}
		if !answer.Valid() {
			return nil, fmt.Errorf("prompt resolved to %q: %w", answer, ErrInvalidState)
		}

		logger.Debug("permissions: prompt for %s on %q resolved to %s", mode, path, answer)
		if err := permission.Set(mode, answer); err != nil {
			return nil, err
		}
		return answer, nil
	})
	if err != nil {
		return "", err
	}
	return resolved.(State), nil
}

// ============================================================================
// Lazy Creation
// ============================================================================

// findOrCreatePermissionLocked returns the Permission for path, creating
// it (and, recursively, its ancestors') on first touch.
//
// Creation order matters: the provider's initial values are applied
// first, then overwritten by the parent's current values, then the new
// Permission subscribes to the parent's future changes. The net effect is
// a snapshot-at-creation plus live cascade. Caller holds the manager
// lock.
func (m *Manager) findOrCreatePermissionLocked(path string) *Permission {
	if permission, ok := m.permissions[path]; ok {
		return permission
	}

	initial := m.provider.Initial(m.fs, path)
	permission := NewPermission(initial.Read, initial.Readwrite)

	if path != "" {
		parent := m.findOrCreatePermissionLocked(paths.Parent(path))

		permission.SetRead(parent.GetRead())
		permission.SetReadwrite(parent.GetReadwrite())

		parent.Subscribe(ModeRead, permission.SetRead)
		parent.Subscribe(ModeReadwrite, permission.SetReadwrite)
	}

	m.permissions[path] = permission
	return permission
}
