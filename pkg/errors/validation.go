package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidateRange checks that an integer option lies within [lo, hi].
func ValidateRange(option string, value, lo, hi int) error {
	if value < lo || value > hi {
		return New(ErrCodeInvalidOption, "%s must be between %d and %d, got %d", option, lo, hi, value)
	}
	return nil
}

// ValidateChoice checks that a string option is one of the allowed values.
// Comparison is case-insensitive; the empty string is rejected.
func ValidateChoice(option, value string, allowed ...string) error {
	if value == "" {
		return New(ErrCodeInvalidOption, "%s cannot be empty", option)
	}
	if slices.Contains(allowed, strings.ToLower(value)) {
		return nil
	}
	return New(ErrCodeInvalidOption, "invalid %s %q (want one of: %s)", option, value, strings.Join(allowed, ", "))
}

// ValidatePath validates a client-supplied file name, as sent to the
// formatting API or given with --stdin-filename.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
