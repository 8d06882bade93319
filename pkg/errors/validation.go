package errors

import (
	"strings"
	"unicode"
)

// maxChipNameLength bounds chip names read from sheets and URLs.
const maxChipNameLength = 64

// ValidateChipName validates a chip name read from a sheet or a request.
//
// The rules are intentionally loose, since registry keys are free-form:
//   - No empty (or whitespace-only) names
//   - No control characters
//   - Maximum length of 64 characters
func ValidateChipName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "chip name cannot be empty")
	}

	if len(name) > maxChipNameLength {
		return New(ErrCodeInvalidInput, "chip name too long (max %d characters)", maxChipNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "chip name contains invalid control characters")
		}
	}

	return nil
}
