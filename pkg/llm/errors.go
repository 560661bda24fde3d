package llm

import (
	"errors"
	"fmt"
)

// Sentinel errors for the llm package.
var (
	// ErrNotInitialized is returned when generation is attempted
	// before a backend has been adopted.
	ErrNotInitialized = errors.New("llm: not initialized")

	// ErrNoBackend is returned when the engine has no candidate
	// backends to probe.
	ErrNoBackend = errors.New("llm: no candidate backends")

	// ErrNoModels is returned when a backend is reachable but has no
	// model to serve.
	ErrNoModels = errors.New("llm: no models available")
)

// BackendError wraps an error with the backend that produced it.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("llm backend %s: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with backend context. Returns nil if err
// is nil.
func WrapError(backend string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Backend: backend, Err: err}
}

// APIError represents an HTTP error response from a backend daemon.
type APIError struct {
	Backend    string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("llm backend %s: status %d", e.Backend, e.StatusCode)
	}
	return fmt.Sprintf("llm backend %s: status %d: %s", e.Backend, e.StatusCode, e.Message)
}

// DetectError reports that every candidate backend failed its startup
// probe. It keeps the individual errors for inspection.
type DetectError struct {
	Errors []error
}

func (e *DetectError) Error() string {
	if len(e.Errors) == 0 {
		return "llm: no backend available"
	}
	return fmt.Sprintf("llm: all %d backends unavailable, last error: %v",
		len(e.Errors), e.Errors[len(e.Errors)-1])
}

// Unwrap returns the last error, which is often the most relevant.
func (e *DetectError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}
