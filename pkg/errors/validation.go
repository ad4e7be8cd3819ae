package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// idRegex matches figure, session and plot identifiers: letters, digits,
// dashes and underscores, as produced by uuid.NewString or chosen by users.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateID validates an identifier used as a storage or cache key.
// It rejects anything that could escape a key prefix or a directory.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidID, "id too long (max 128 characters)")
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid id: %q", id)
	}
	return nil
}

// subplotRegex matches subplot ids such as "xy" or "x2y3".
var subplotRegex = regexp.MustCompile(`^x[0-9]*y[0-9]*$`)

// ValidateSubplotID validates a cartesian subplot id.
func ValidateSubplotID(id string) error {
	if !subplotRegex.MatchString(id) {
		return New(ErrCodeUnknownSubplot, "invalid subplot id: %q", id)
	}
	return nil
}

// axisRegex matches axis ids such as "x", "y2".
var axisRegex = regexp.MustCompile(`^[xy][0-9]*$`)

// ValidateAxisID validates an axis id.
func ValidateAxisID(id string) error {
	if !axisRegex.MatchString(id) {
		return New(ErrCodeInvalidFigure, "invalid axis id: %q", id)
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
