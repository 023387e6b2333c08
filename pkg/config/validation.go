package config

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom
// rules.
//
// go-playground/validator handles the declarative rules via struct tags;
// rules that cannot be expressed in tags are checked explicitly.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return validateCustomRules(cfg)
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	if _, err := ParseSpace(cfg.Disk.TotalSpace); err != nil {
		return fmt.Errorf("disk.total_space: %w", err)
	}

	if cfg.Naming.ForbiddenPattern != "" {
		if _, err := regexp.Compile(cfg.Naming.ForbiddenPattern); err != nil {
			return fmt.Errorf("naming.forbidden_pattern: %w", err)
		}
	}

	// Seed paths must be unique, and content only makes sense on files
	seen := make(map[string]bool)
	for i, entry := range cfg.Seed {
		if seen[entry.Path] {
			return fmt.Errorf("seed[%d]: duplicate path %q", i, entry.Path)
		}
		seen[entry.Path] = true

		if entry.Kind == "directory" && (entry.Content != "" || entry.Size != 0) {
			return fmt.Errorf("seed[%d]: directory %q cannot carry content or size", i, entry.Path)
		}
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly
// messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
