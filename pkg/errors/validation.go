package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateOutputPath validates a filesystem path an artifact will be written to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Must not end in a path separator (a file name is required)
//
// Whether the parent directory exists is left to the filesystem: a missing
// directory surfaces as an IO_ERROR when the file is written.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path must name a file, got directory %q", path)
	}

	return nil
}

// hexColorRegex matches #RGB and #RRGGBB color literals.
var hexColorRegex = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// ValidateHexColor validates a #RGB or #RRGGBB color literal.
func ValidateHexColor(s string) error {
	if !hexColorRegex.MatchString(s) {
		return New(ErrCodeInvalidColor, "invalid color literal: %q (want #RGB or #RRGGBB)", s)
	}
	return nil
}

// idRegex matches box identifiers. IDs become SVG element ids and DOT node
// names, so they are kept to a conservative character set.
var idRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidateID reports whether id is usable as a box identifier.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidLayout, "id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidLayout, "id too long (max 64 characters): %q", id)
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidLayout, "invalid id: %q (letters, digits, '-' and '_' only)", id)
	}
	return nil
}
