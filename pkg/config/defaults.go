package config

import "strings"

// ApplyDefaults sets default values for any unspecified configuration
// fields.
//
// Default Strategy:
//   - Zero values ("", 0, nil) are replaced with defaults
//   - Explicit values are preserved
//   - Provider-specific defaults are handled by the provider factory
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyDiskDefaults(&cfg.Disk)
	applyPermissionsDefaults(&cfg.Permissions)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "WARN"
	}
	cfg.Level = strings.ToUpper(cfg.Level)
}

// applyDiskDefaults sets disk defaults.
func applyDiskDefaults(cfg *DiskConfig) {
	if cfg.TotalSpace == "" {
		cfg.TotalSpace = "unlimited"
	}
}

// applyPermissionsDefaults sets permission provider defaults.
func applyPermissionsDefaults(cfg *PermissionsConfig) {
	if cfg.Type == "" {
		cfg.Type = "static"
	}
	if cfg.Static == nil {
		cfg.Static = make(map[string]any)
	}
}
