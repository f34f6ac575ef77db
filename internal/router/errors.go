package router

import (
	"fmt"
	"net/http"
)

// ConfigurationError is returned when a route cannot be registered.
type ConfigurationError struct {
	Method string
	Path   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("route %s %s: %s", e.Method, e.Path, e.Reason)
}

// NotFoundError describes a request that matched no route.
type NotFoundError struct {
	Method string
	Path   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no route for %s %s", e.Method, e.Path)
}

// HTTPError lets a handler choose the status of an error reply.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// NewHTTPError builds an HTTPError, using the status text when message is empty.
func NewHTTPError(status int, message string, err error) *HTTPError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &HTTPError{Status: status, Message: message, Err: err}
}
