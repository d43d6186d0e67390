// Package errors defines the application error taxonomy shared by the API
// handlers and the renderer.
package errors

import (
	"fmt"
)

// ErrorType defines different categories of errors
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "VALIDATION"
	ErrorTypeMalformedInput ErrorType = "MALFORMED_INPUT"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND"
	ErrorTypeStorage        ErrorType = "STORAGE"
	ErrorTypeRender         ErrorType = "RENDER"
)

// AppError is the custom error type for the application
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidation creates a validation error. The message is user-facing and
// must state the violated rule.
func NewValidation(message string) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewMalformedInput creates an error for input that could not be parsed at all.
func NewMalformedInput(message string) error {
	return &AppError{
		Type:    ErrorTypeMalformedInput,
		Message: message,
	}
}

// NewNotFound creates a not found error
func NewNotFound(message string) error {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewStorage creates a storage backend error
func NewStorage(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: message,
		Err:     err,
	}
}

// NewRender creates a renderer error
func NewRender(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeRender,
		Message: message,
		Err:     err,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, preserve the type
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Type:    appErr.Type,
			Message: fmt.Sprintf("%s: %s", message, appErr.Message),
			Err:     appErr.Err,
		}
	}

	return &AppError{
		Type:    ErrorTypeStorage,
		Message: message,
		Err:     err,
	}
}

// Message returns the user-facing message for an error, or a generic fallback.
func Message(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Message
	}
	return "The request could not be completed."
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeValidation
}

// IsMalformedInput checks if an error is a malformed input error
func IsMalformedInput(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeMalformedInput
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeNotFound
}

// IsStorage checks if an error is a storage backend error
func IsStorage(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeStorage
}

// IsRender checks if an error is a renderer error
func IsRender(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeRender
}
