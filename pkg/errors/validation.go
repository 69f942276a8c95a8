package errors

import (
	"strings"
	"unicode"
)

// ValidateUsername validates an account name before it is placed in the
// login URL path.
//
// Rules:
//   - No empty names
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of 64 characters
func ValidateUsername(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "username cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "username too long (max 64 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "username contains invalid characters")
		}
	}
	for _, pattern := range []string{"/", "\\", "..", "?", "#", "%"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "username contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidatePassword rejects empty passwords. The value is never echoed.
func ValidatePassword(password string) error {
	if password == "" {
		return New(ErrCodeInvalidInput, "password cannot be empty")
	}
	return nil
}
