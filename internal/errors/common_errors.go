package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeLoad    ErrorType = "LOAD"
	ErrTypeSchema  ErrorType = "SCHEMA"
	ErrTypePersist ErrorType = "PERSIST"
	ErrTypeConfig  ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewLoadError reports a missing, unreadable or malformed input table.
func NewLoadError(message string, cause error) *AppError {
	return NewAppError(ErrTypeLoad, message, cause)
}

// NewSchemaError reports a required column that is absent or not numeric.
func NewSchemaError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchema, message, cause)
}

// NewPersistError reports a failure writing the augmented table.
func NewPersistError(message string, cause error) *AppError {
	return NewAppError(ErrTypePersist, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// ErrorTypeOf returns the type of the first AppError in err's chain, or ""
func ErrorTypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsLoadError reports whether err carries a LOAD AppError
func IsLoadError(err error) bool {
	return ErrorTypeOf(err) == ErrTypeLoad
}

// IsSchemaError reports whether err carries a SCHEMA AppError
func IsSchemaError(err error) bool {
	return ErrorTypeOf(err) == ErrTypeSchema
}

// IsPersistError reports whether err carries a PERSIST AppError
func IsPersistError(err error) bool {
	return ErrorTypeOf(err) == ErrTypePersist
}

// IsConfigError reports whether err carries a CONFIG AppError
func IsConfigError(err error) bool {
	return ErrorTypeOf(err) == ErrTypeConfig
}
