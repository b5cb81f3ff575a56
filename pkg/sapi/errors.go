package sapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Static errors that can be wrapped with context.
var (
	ErrConfigRequired     = errors.New("config is required")
	ErrClientIDRequired   = errors.New("client identifier is required")
	ErrEmptyResponseBody  = errors.New("response body is empty")
	ErrNoCollection       = errors.New("response contains no collection")
	ErrConfigFileRequired = errors.New("config file path is required")
)

// TransportError indicates that no response was obtained: the request
// never produced a status code or a body.
type TransportError struct {
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

// Unwrap returns the underlying transport error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError indicates that a response was obtained but its body was
// missing or not valid JSON.
type DecodeError struct {
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response: %v", e.Err)
}

// Unwrap returns the underlying decode error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// APIError represents a well-formed error payload from the API. It is
// constructed by parse functions, never by the executor itself.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (status: %d)", e.Status)
	}

	return fmt.Sprintf("%s (status: %d)", e.Message, e.Status)
}

// AuthError indicates an expired credential that could not be resolved
// by refreshing the session: the refresh itself failed, or the retried
// request was rejected again.
type AuthError struct {
	Status int
	Err    error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authorization expired (status: %d): %v", e.Status, e.Err)
	}

	return fmt.Sprintf("authorization expired (status: %d)", e.Status)
}

// Unwrap returns the refresh error, if any.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsTransport checks if the error is a transport failure.
func IsTransport(err error) bool {
	transportErr := &TransportError{}

	return errors.As(err, &transportErr)
}

// IsUnauthorized checks if the error carries a 401 status.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized
	}

	authErr := &AuthError{}
	if errors.As(err, &authErr) {
		return authErr.Status == http.StatusUnauthorized
	}

	return false
}

// IsNotFound checks if the error carries a 404 status.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound
	}

	return false
}
