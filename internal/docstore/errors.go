package docstore

import (
	"errors"
	"fmt"
)

// EditError represents a rejected edit, detected during the fallible phase.
//
// Edit errors include:
//   - Invalid path: empty path or empty dotted segment
//   - Missing key: a referenced key or intermediate parent does not exist
//   - Not a mapping: an intermediate path segment resolves to a scalar or list
//   - Key exists: a rename target is already occupied
//
// An EditError always means the document was left completely untouched.
type EditError struct {
	// Code identifies the rejection category.
	Code EditErrorCode

	// Path is the dotted path (or path prefix) that failed validation.
	Path string

	// Message is a human-readable description.
	Message string
}

// EditErrorCode categorizes edit rejections.
type EditErrorCode string

const (
	// ErrCodeInvalidPath indicates a malformed dotted path.
	ErrCodeInvalidPath EditErrorCode = "INVALID_PATH"

	// ErrCodeMissingKey indicates a referenced key doesn't exist.
	ErrCodeMissingKey EditErrorCode = "MISSING_KEY"

	// ErrCodeNotAMapping indicates an intermediate segment isn't a mapping.
	ErrCodeNotAMapping EditErrorCode = "NOT_A_MAPPING"

	// ErrCodeKeyExists indicates a rename target is already occupied.
	ErrCodeKeyExists EditErrorCode = "KEY_EXISTS"
)

// Error implements the error interface.
func (e *EditError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMissingKey returns true if the error is a missing key rejection.
// Uses errors.As to handle wrapped errors.
func IsMissingKey(err error) bool {
	var ee *EditError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeMissingKey
	}
	return false
}

// IsInvalidPath returns true if the error is a malformed path rejection.
// Uses errors.As to handle wrapped errors.
func IsInvalidPath(err error) bool {
	var ee *EditError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeInvalidPath
	}
	return false
}
