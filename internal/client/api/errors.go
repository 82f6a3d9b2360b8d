package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any APIError with status 404.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the resource server.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Msg is the user-facing message from a JSON error body, if any.
	Msg string
	// Body is the raw (trimmed) response body, kept for logging.
	Body string
}

func (e *APIError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Msg)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Message returns the server-provided message carried by err, or "" when the
// failure has no structured reason (transport errors, plain-text bodies).
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Msg
	}
	return ""
}
