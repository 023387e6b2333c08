// Package config declaratively describes a mock instance: disk quota,
// permission provider, naming rules, and a seed tree, loadable from a
// YAML file with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/alxcube/fsa-mock/pkg/filesystem"
)

// Config is the complete declarative description of a mock instance.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (FSAMOCK_*)
//  2. Configuration file (YAML)
//  3. Default values
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Disk sizes the virtual disk
	Disk DiskConfig `mapstructure:"disk"`

	// Permissions selects and configures the permission provider
	Permissions PermissionsConfig `mapstructure:"permissions"`

	// Naming configures entry-name validation
	Naming NamingConfig `mapstructure:"naming"`

	// Seed lists entries created at construction, so fixtures can be
	// described instead of scripted
	Seed []SeedEntry `mapstructure:"seed" validate:"dive"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// DiskConfig sizes the virtual disk.
type DiskConfig struct {
	// TotalSpace is the disk capacity in bytes, or "unlimited"
	TotalSpace string `mapstructure:"total_space" validate:"required"`
}

// PermissionsConfig selects the permission provider.
//
// The Type field determines which provider implementation is used. Only
// the corresponding type-specific section is decoded.
type PermissionsConfig struct {
	// Type specifies which permission provider to use
	// Valid values: static
	Type string `mapstructure:"type" validate:"required,oneof=static"`

	// Static contains static-provider configuration
	// Only used when Type = "static"
	Static map[string]any `mapstructure:"static"`
}

// NamingConfig configures entry-name validation.
type NamingConfig struct {
	// ForbiddenPattern is the regular expression matching characters
	// rejected in entry names. Empty uses the built-in default.
	ForbiddenPattern string `mapstructure:"forbidden_pattern"`
}

// SeedEntry describes one entry created at construction.
type SeedEntry struct {
	// Path is the entry's full path within the mock filesystem
	Path string `mapstructure:"path" validate:"required"`

	// Kind selects the entry type
	// Valid values: file, directory
	Kind string `mapstructure:"kind" validate:"required,oneof=file directory"`

	// Content is the file's initial content (files only)
	Content string `mapstructure:"content"`

	// Size creates a zero-filled file of this many bytes (files only,
	// ignored when Content is set)
	Size uint64 `mapstructure:"size"`
}

// Load loads configuration from file, environment, and defaults.
//
// An empty configPath uses the default location; a missing file there is
// acceptable and yields the defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment variable support and the config file
// location.
func setupViper(v *viper.Viper, configPath string) {
	// Example: FSAMOCK_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("FSAMOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory: XDG_CONFIG_HOME if
// set, otherwise ~/.config, falling back to the current directory.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "fsamock")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "fsamock")
}

// ParseSpace converts a disk-space string into bytes. "unlimited"
// (case-insensitive) maps to the unlimited sentinel.
func ParseSpace(value string) (uint64, error) {
	if strings.EqualFold(value, "unlimited") {
		return filesystem.Unlimited, nil
	}

	space, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("disk space %q: expected a byte count or \"unlimited\"", value)
	}
	return space, nil
}
