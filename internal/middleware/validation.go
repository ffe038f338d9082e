package middleware

import (
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateMessageText validates submitted chat input. Blank input is legal
// here; the agent treats it as a no-op.
func ValidateMessageText(text string) error {
	if len(text) > 4000 {
		return errors.New("text exceeds maximum length")
	}
	if !utf8.ValidString(text) {
		return errors.New("text must be valid UTF-8")
	}
	return nil
}

// ValidateSessionID validates a chat session ID.
func ValidateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid session ID format")
	}
	return nil
}

// ValidateSearchTerm validates a catalog search term.
func ValidateSearchTerm(term string) error {
	if len(term) > 200 {
		return errors.New("search term exceeds maximum length")
	}
	if !utf8.ValidString(term) {
		return errors.New("search term must be valid UTF-8")
	}
	return nil
}
