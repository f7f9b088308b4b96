package client

import (
	"fmt"
	"net/http"
)

// TransportError means the request never produced an HTTP response
// (connection refused, timeout, cancelled context).
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to make request %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned for any non-2xx response from the bookstore API
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request %s %s failed with status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("request %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// NotFound reports whether the API answered 404
func (e *StatusError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}
