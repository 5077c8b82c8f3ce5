package errors

import (
	"errors"
	"fmt"
)

// StatusError represents a non-2xx response from a vendor endpoint
type StatusError struct {
	Service    string
	StatusCode int
	Body       string // truncated response body, if any
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Service, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Service, e.StatusCode)
}

// NewStatusError creates a new StatusError
func NewStatusError(service string, statusCode int, body string) *StatusError {
	return &StatusError{
		Service:    service,
		StatusCode: statusCode,
		Body:       body,
	}
}

// IsStatusError checks if error is a StatusError
func IsStatusError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr)
}
