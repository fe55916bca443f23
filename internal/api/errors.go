package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork covers connectivity failures, timeouts and an open breaker.
	ErrNetwork = errors.New("network error")

	// ErrServer covers any non-success answer from the server.
	ErrServer = errors.New("server error")
)

// StatusError is a non-2xx answer. It matches ErrServer with errors.Is.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("server error: %d %s", e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	return ErrServer
}

// IsClientError reports whether the server rejected the request itself
// (4xx) rather than failing to process it.
func (e *StatusError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// StatusCode extracts the HTTP status from err, or 0 if err is not a
// StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
