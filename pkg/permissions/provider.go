package permissions

import (
	"context"

	"github.com/alxcube/fsa-mock/pkg/filesystem"
)

// InitialStates is the pair of values a provider assigns to a path's
// Permission at creation time. Inheritance from an existing parent
// overrides these for every non-root path.
type InitialStates struct {
	Read      State
	Readwrite State
}

// Provider supplies initial permission values and resolves prompts.
//
// Initial is called once per path, on first Permission creation. Prompt
// is the default resolver invoked by RequestPermission when the current
// state is "prompt"; it may block on externally driven input (in tests,
// usually a canned answer).
type Provider interface {
	Initial(fs *filesystem.FileSystem, path string) InitialStates
	Prompt(ctx context.Context, mode Mode, fs *filesystem.FileSystem, path string) (State, error)
}

// StaticProvider is a Provider with fixed answers: every path starts at
// the configured initial states, and every prompt resolves to Resolution.
type StaticProvider struct {
	InitialRead      State
	InitialReadwrite State
	Resolution       State
}

// DefaultProvider mirrors the browser defaults the mock emulates: paths
// start at "prompt" for both modes, and prompting the user succeeds.
func DefaultProvider() *StaticProvider {
	return &StaticProvider{
		InitialRead:      Prompt,
		InitialReadwrite: Prompt,
		Resolution:       Granted,
	}
}

func (p *StaticProvider) Initial(fs *filesystem.FileSystem, path string) InitialStates {
	return InitialStates{Read: p.InitialRead, Readwrite: p.InitialReadwrite}
}

func (p *StaticProvider) Prompt(ctx context.Context, mode Mode, fs *filesystem.FileSystem, path string) (State, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.Resolution, nil
}
