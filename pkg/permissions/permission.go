// Package permissions implements the browser-style permission model over
// the virtual filesystem: a per-path pair of tri-state values with a
// one-directional coupling, a lazily built inheritance hierarchy, and
// prompt mediation through a pluggable provider.
package permissions

import (
	"fmt"
	"sync"
)

// State is a permission value, matching the browser's PermissionState
// strings.
type State string

const (
	Granted State = "granted"
	Denied  State = "denied"
	Prompt  State = "prompt"
)

// Valid reports whether s is one of the three defined states.
func (s State) Valid() bool {
	return s == Granted || s == Denied || s == Prompt
}

// Mode selects which of the two permission values an operation targets.
type Mode string

const (
	ModeRead      Mode = "read"
	ModeReadwrite Mode = "readwrite"
)

// Valid reports whether m is one of the two defined modes.
func (m Mode) Valid() bool {
	return m == ModeRead || m == ModeReadwrite
}

// ChangeFunc receives the new state when a subscribed mode changes.
type ChangeFunc func(State)

// Permission holds the read and readwrite states for one path.
//
// The two values look independent but are coupled one way: readwrite can
// never be more permissive than read. Setting read to anything other than
// granted drags readwrite to the same value, and setting readwrite to
// granted drags read to granted.
//
// Subscribers registered per mode are notified synchronously, after the
// value is updated, and only when the value actually changed, including
// changes caused by the coupling cascade. A cascade that does not change
// the other mode's value notifies nobody.
type Permission struct {
	mu sync.Mutex

	read      State
	readwrite State

	subscribers map[Mode]map[int]ChangeFunc
	nextSubID   int
}

// NewPermission creates a Permission with the given initial values. No
// coupling is applied to the initial pair; callers supply a consistent
// one.
func NewPermission(read, readwrite State) *Permission {
	return &Permission{
		read:      read,
		readwrite: readwrite,
		subscribers: map[Mode]map[int]ChangeFunc{
			ModeRead:      {},
			ModeReadwrite: {},
		},
	}
}

// Get returns the current state for mode.
func (p *Permission) Get(mode Mode) (State, error) {
	switch mode {
	case ModeRead:
		return p.GetRead(), nil
	case ModeReadwrite:
		return p.GetReadwrite(), nil
	default:
		return "", fmt.Errorf("mode %q: %w", mode, ErrInvalidMode)
	}
}

// Set assigns state to mode, applying the coupling cascade.
func (p *Permission) Set(mode Mode, state State) error {
	if !state.Valid() {
		return fmt.Errorf("state %q: %w", state, ErrInvalidState)
	}

	switch mode {
	case ModeRead:
		p.SetRead(state)
	case ModeReadwrite:
		p.SetReadwrite(state)
	default:
		return fmt.Errorf("mode %q: %w", mode, ErrInvalidMode)
	}
	return nil
}

func (p *Permission) GetRead() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.read
}

func (p *Permission) GetReadwrite() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readwrite
}

// SetRead assigns the read state. A value other than granted cascades
// into the readwrite setter, since readwrite may not exceed read.
func (p *Permission) SetRead(state State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setReadLocked(state)
}

// SetReadwrite assigns the readwrite state. Granting readwrite cascades
// a grant into the read setter.
func (p *Permission) SetReadwrite(state State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setReadwriteLocked(state)
}

func (p *Permission) setReadLocked(state State) {
	if p.read != state {
		p.read = state
		p.notifyLocked(ModeRead, state)
	}

	if state != Granted {
		p.setReadwriteLocked(state)
	}
}

func (p *Permission) setReadwriteLocked(state State) {
	if p.readwrite != state {
		p.readwrite = state
		p.notifyLocked(ModeReadwrite, state)
	}

	if state == Granted {
		p.setReadLocked(Granted)
	}
}

// notifyLocked calls every subscriber for mode with the committed value.
// Runs under p.mu; subscribers touch other Permission objects (the
// hierarchy is a tree), never back into this one.
func (p *Permission) notifyLocked(mode Mode, state State) {
	for _, callback := range p.subscribers[mode] {
		callback(state)
	}
}

// Subscribe registers a change callback for mode and returns an
// identifier for Unsubscribe.
func (p *Permission) Subscribe(mode Mode, callback ChangeFunc) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextSubID++
	p.subscribers[mode][p.nextSubID] = callback
	return p.nextSubID
}

// Unsubscribe removes a previously registered callback. Unknown ids are
// ignored.
func (p *Permission) Unsubscribe(mode Mode, id int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.subscribers[mode], id)
}
