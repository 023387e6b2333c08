package handle

import (
	"fmt"
	"regexp"
)

// DefaultForbiddenPattern matches the characters the default validator
// rejects in entry names.
const DefaultForbiddenPattern = `[\\/:*?"<>|]`

// EntryNameValidator decides whether a name is acceptable for a new or
// looked-up child entry. isFileName distinguishes file names from
// directory names for implementations that treat them differently.
type EntryNameValidator interface {
	IsValidName(name string, isFileName bool) bool
}

// defaultEntryNameValidator rejects ".", "..", the empty string, and any
// name matching its forbidden-characters pattern, for files and
// directories alike.
type defaultEntryNameValidator struct {
	forbidden *regexp.Regexp
}

// NewEntryNameValidator builds the default validator. An empty pattern
// falls back to DefaultForbiddenPattern; an invalid pattern fails.
func NewEntryNameValidator(pattern string) (EntryNameValidator, error) {
	if pattern == "" {
		pattern = DefaultForbiddenPattern
	}

	forbidden, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("forbidden-name pattern %q: %w", pattern, err)
	}
	return &defaultEntryNameValidator{forbidden: forbidden}, nil
}

func (v *defaultEntryNameValidator) IsValidName(name string, isFileName bool) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !v.forbidden.MatchString(name)
}
