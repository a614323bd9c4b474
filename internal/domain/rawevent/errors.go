package rawevent

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPayload marks every rejection at the ingestion boundary.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrPayloadConflict is returned when a different body arrives for a
	// fixture that is already stored.
	ErrPayloadConflict = errors.New("payload conflicts with stored payload")
)

// ParseError locates the first problem found in a provider payload.
type ParseError struct {
	Provider Provider
	Field    string
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s payload: %s: %s", e.Provider, e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedPayload
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Malformed builds a ParseError for field.
func Malformed(provider Provider, field, reason string) *ParseError {
	return &ParseError{Provider: provider, Field: field, Reason: reason}
}
