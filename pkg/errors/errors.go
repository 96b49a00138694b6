// Package errors provides custom error types for the trialscope system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the trialscope system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrDataLoad indicates that a registry export could not be loaded
	ErrDataLoad = errors.New("data load failed")

	// ErrRegistryUnavailable indicates that a registry API is temporarily unavailable
	ErrRegistryUnavailable = errors.New("registry unavailable")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// DataLoadError represents a failure to load a registry export file.
// It is the only error kind propagated out of loading; parse-level
// anomalies inside a loadable file degrade to absent values instead.
type DataLoadError struct {
	Registry string
	Path     string
	Message  string
	Err      error
}

// Error implements the error interface
func (e *DataLoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to load %s export %s: %s", e.Registry, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to load %s export: %s", e.Registry, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *DataLoadError) Is(target error) bool {
	return target == ErrDataLoad
}

// NewDataLoadError creates a new DataLoadError
func NewDataLoadError(registry, path string, err error) *DataLoadError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &DataLoadError{
		Registry: registry,
		Path:     path,
		Message:  message,
		Err:      err,
	}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error from a registry API
type APIError struct {
	Registry   string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Registry, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Registry, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode >= 500 {
		return target == ErrRegistryUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(registry string, statusCode int, message string) *APIError {
	return &APIError{
		Registry:   registry,
		StatusCode: statusCode,
		Message:    message,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDataLoad checks if an error is a data load error
func IsDataLoad(err error) bool {
	return errors.Is(err, ErrDataLoad)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRegistryUnavailable checks if an error indicates registry unavailability
func IsRegistryUnavailable(err error) bool {
	return errors.Is(err, ErrRegistryUnavailable)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapDataLoad wraps an error as a DataLoadError
func WrapDataLoad(registry, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewDataLoadError(registry, path, err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(registry string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Registry:   registry,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
