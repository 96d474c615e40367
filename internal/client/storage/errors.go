package storage

import "errors"

// Common client storage errors
var (
	// ErrTokenNotFound indicates that no token of the requested kind is stored
	ErrTokenNotFound = errors.New("token not found")

	// ErrPreferenceNotFound indicates that the preference key was never saved
	ErrPreferenceNotFound = errors.New("preference not found")

	// ErrUnknownTokenKind indicates a token kind outside of Kinds
	ErrUnknownTokenKind = errors.New("unknown token kind")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)

// ValidKind reports whether kind is one of the known token kinds.
func ValidKind(kind TokenKind) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
