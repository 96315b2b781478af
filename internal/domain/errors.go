// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that the engine and its adapters can return.
var (
	// ErrUnknownEdge is returned when an edge name is not one of top, bottom, left, right.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrScreenUnavailable is returned when screen geometry cannot be resolved,
	// for example after a display disconnects mid-session.
	ErrScreenUnavailable = errors.New("screen geometry unavailable")

	// ErrSynchronizerClosed is returned when an operation is attempted on a
	// synchronizer that has been shut down.
	ErrSynchronizerClosed = errors.New("synchronizer closed")

	// ErrNotInitialized is returned when an operation is attempted on an uninitialized component.
	ErrNotInitialized = errors.New("component not initialized")

	// ErrAlreadyInitialized is returned when attempting to initialize an already initialized component.
	ErrAlreadyInitialized = errors.New("component already initialized")

	// ErrUnsupportedFormat is returned when an audio file format is not supported.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrFileNotFound is returned when a file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrAudioInputNotFound is returned when the selected audio input cannot be opened.
	ErrAudioInputNotFound = errors.New("audio input not found")

	// ErrInvalidOpacity is returned when the opacity is out of valid range (0.0-1.0).
	ErrInvalidOpacity = errors.New("invalid opacity: must be between 0.0 and 1.0")

	// ErrInvalidDensity is returned when a density value is not positive.
	ErrInvalidDensity = errors.New("invalid density: must be positive")

	// ErrInvalidThickness is returned when an edge thickness is below the minimum.
	ErrInvalidThickness = errors.New("invalid thickness: below minimum strip depth")

	// ErrUnknownMode is returned when a visualization mode has no registered effect.
	ErrUnknownMode = errors.New("unknown visualization mode")

	// ErrUnknownColorScheme is returned when a color scheme name is not recognized.
	ErrUnknownColorScheme = errors.New("unknown color scheme")
)

// ScreenError reports a failure to resolve screen geometry for an edge.
// It wraps ErrScreenUnavailable so callers can test with errors.Is.
type ScreenError struct {
	Edge Edge   // Edge whose window placement failed
	Op   string // Operation that needed the geometry (e.g., "toggle", "resize")
	Err  error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *ScreenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("screen geometry for edge %q unavailable during %s: %v", e.Edge, e.Op, e.Err)
	}
	return fmt.Sprintf("screen geometry for edge %q unavailable during %s", e.Edge, e.Op)
}

// Unwrap returns ErrScreenUnavailable, or the underlying error when it
// already carries that sentinel.
func (e *ScreenError) Unwrap() error {
	if e.Err != nil && errors.Is(e.Err, ErrScreenUnavailable) {
		return e.Err
	}
	return ErrScreenUnavailable
}

// NewScreenError creates a new ScreenError.
func NewScreenError(edge Edge, op string, err error) *ScreenError {
	return &ScreenError{Edge: edge, Op: op, Err: err}
}

// WindowError reports a failure from the host windowing layer.
type WindowError struct {
	Edge    Edge   // Edge the window belongs to
	Op      string // Operation that failed (e.g., "create", "reposition")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *WindowError) Error() string {
	return fmt.Sprintf("overlay window %s failed for edge %q: %s", e.Op, e.Edge, e.Message)
}

// Unwrap returns the underlying error.
func (e *WindowError) Unwrap() error {
	return e.Err
}

// NewWindowError creates a new WindowError.
func NewWindowError(edge Edge, op, message string, err error) *WindowError {
	return &WindowError{Edge: edge, Op: op, Message: message, Err: err}
}

// RepositoryError represents an error from the settings repository.
// This wraps persistence layer errors with additional context.
type RepositoryError struct {
	Op      string // Operation that failed (e.g., "load", "save")
	Type    string // Repository type (e.g., "jsonfile", "memory")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s.%s failed: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, repoType, message string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Type:    repoType,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error on a settings value.
type ValidationError struct {
	Field   string      // Field that failed validation
	Value   interface{} // Value that failed validation
	Message string      // Error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
