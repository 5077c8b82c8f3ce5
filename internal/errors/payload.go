package errors

import (
	"errors"
	"fmt"
)

// PayloadError is returned when a vendor payload is missing a field the
// extractors depend on. Such payloads never reach the matcher.
type PayloadError struct {
	Source string
	Field  string
	Index  int // position of the offending element, -1 for the document root
}

func (e *PayloadError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s payload: element %d is missing %q", e.Source, e.Index, e.Field)
	}
	return fmt.Sprintf("%s payload: missing %q", e.Source, e.Field)
}

// NewPayloadError creates a PayloadError for element index of the payload.
func NewPayloadError(source, field string, index int) *PayloadError {
	return &PayloadError{Source: source, Field: field, Index: index}
}

// IsPayloadError reports whether err is a PayloadError (even when wrapped).
func IsPayloadError(err error) bool {
	var payloadErr *PayloadError
	return errors.As(err, &payloadErr)
}
