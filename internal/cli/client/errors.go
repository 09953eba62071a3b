package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// GenericFailureMessage is used when an error response carries no detail
const GenericFailureMessage = "request failed"

// ErrTooManyFiles is returned when a multipart submission exceeds MaxFiles
var ErrTooManyFiles = fmt.Errorf("at most %d files can be uploaded at once", MaxFiles)

// APIError is a non-2xx response whose body decoded as JSON
type APIError struct {
	StatusCode int
	Detail     string
	Body       json.RawMessage
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return GenericFailureMessage
}

// DecodeError is a response whose body was not JSON, whatever its status
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response (status %d): %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is an *APIError with the given status code
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
