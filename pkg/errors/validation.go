package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePath validates a dataset path supplied by a user or an HTTP request.
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

// tableNameRegex matches plain SQL identifiers.
var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateTableName validates an SQLite table name. Table names are
// interpolated into a SELECT statement, so only plain identifiers pass.
func ValidateTableName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "table name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "table name too long (max 128 characters)")
	}
	if !tableNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid table name: %q", name)
	}
	return nil
}
