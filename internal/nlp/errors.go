package nlp

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is wrapped by StatusError for any non-2xx reply.
	ErrUnexpectedStatus = errors.New("unexpected status from intent service")

	// ErrMissingToken is returned by NewClient when no bearer token is configured.
	ErrMissingToken = errors.New("intent service token not configured")
)

// StatusError carries the status code and a truncated body of a failed call.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d: %s", ErrUnexpectedStatus, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
