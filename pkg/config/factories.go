package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/alxcube/fsa-mock/internal/logger"
	"github.com/alxcube/fsa-mock/pkg/fsamock"
	"github.com/alxcube/fsa-mock/pkg/permissions"
)

// CreatePermissionProvider creates a permission provider based on
// configuration.
//
// The Type field selects the implementation; the type-specific map is
// decoded into that implementation's option struct.
func CreatePermissionProvider(cfg *PermissionsConfig) (permissions.Provider, error) {
	switch cfg.Type {
	case "static":
		return createStaticProvider(cfg.Static)
	default:
		return nil, fmt.Errorf("unknown permission provider type: %q", cfg.Type)
	}
}

// createStaticProvider decodes static-provider options and builds the
// provider.
func createStaticProvider(options map[string]any) (permissions.Provider, error) {
	type StaticProviderConfig struct {
		InitialRead      string `mapstructure:"initial_read"`
		InitialReadwrite string `mapstructure:"initial_readwrite"`
		Resolution       string `mapstructure:"resolution"`
	}

	var providerCfg StaticProviderConfig
	if err := mapstructure.Decode(options, &providerCfg); err != nil {
		return nil, fmt.Errorf("failed to decode static provider config: %w", err)
	}

	provider := permissions.DefaultProvider()
	states := []struct {
		value  string
		target *permissions.State
		field  string
	}{
		{providerCfg.InitialRead, &provider.InitialRead, "initial_read"},
		{providerCfg.InitialReadwrite, &provider.InitialReadwrite, "initial_readwrite"},
		{providerCfg.Resolution, &provider.Resolution, "resolution"},
	}
	for _, s := range states {
		if s.value == "" {
			continue
		}
		state := permissions.State(s.value)
		if !state.Valid() {
			return nil, fmt.Errorf("permissions.static.%s: invalid state %q", s.field, s.value)
		}
		*s.target = state
	}

	return provider, nil
}

// CreateMock builds a fully seeded mock instance from configuration.
//
// The logging level is applied globally, the disk and validator come
// from their sections, and every seed entry is created in order.
func CreateMock(cfg *Config) (*fsamock.Mock, error) {
	logger.SetLevel(cfg.Logging.Level)

	totalSpace, err := ParseSpace(cfg.Disk.TotalSpace)
	if err != nil {
		return nil, err
	}

	provider, err := CreatePermissionProvider(&cfg.Permissions)
	if err != nil {
		return nil, err
	}

	mock, err := fsamock.New(
		fsamock.WithTotalDiskSpace(totalSpace),
		fsamock.WithPermissionProvider(provider),
		fsamock.WithForbiddenNamePattern(cfg.Naming.ForbiddenPattern),
	)
	if err != nil {
		return nil, err
	}

	if err := seed(mock, cfg.Seed); err != nil {
		return nil, err
	}
	return mock, nil
}

// seed creates the configured entries.
func seed(mock *fsamock.Mock, entries []SeedEntry) error {
	fs := mock.FileSystem()

	for i, entry := range entries {
		switch entry.Kind {
		case "directory":
			if _, err := fs.MakeDirectory(entry.Path, true); err != nil {
				return fmt.Errorf("seed[%d] %q: %w", i, entry.Path, err)
			}

		case "file":
			descriptor, err := fs.CreateFile(entry.Path, entry.Size)
			if err != nil {
				return fmt.Errorf("seed[%d] %q: %w", i, entry.Path, err)
			}
			if entry.Content != "" {
				if err := fs.WriteFile(descriptor, []byte(entry.Content)); err != nil {
					return fmt.Errorf("seed[%d] %q: %w", i, entry.Path, err)
				}
			}

		default:
			return fmt.Errorf("seed[%d] %q: unknown kind %q", i, entry.Path, entry.Kind)
		}
	}

	return nil
}
