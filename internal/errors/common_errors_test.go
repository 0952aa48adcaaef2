package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{"load error type", ErrTypeLoad, "LOAD"},
		{"schema error type", ErrTypeSchema, "SCHEMA"},
		{"persist error type", ErrTypePersist, "PERSIST"},
		{"config error type", ErrTypeConfig, "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeSchema,
				Message: "column timestamp not found",
			},
			wantMessage: "[SCHEMA] column timestamp not found",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeLoad,
				Message: "failed to read data.csv",
				Cause:   fmt.Errorf("permission denied"),
			},
			wantMessage: "[LOAD] failed to read data.csv: permission denied",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypePersist,
			},
			wantMessage: "[PERSIST] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewPersistError("write data.csv", cause)

	assert.Same(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))

	assert.Nil(t, NewSchemaError("no column", nil).Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	t.Run("initializes nil context", func(t *testing.T) {
		appError := &AppError{Type: ErrTypeSchema, Message: "bad value"}

		result := appError.WithContext("row", 3)

		assert.Same(t, appError, result)
		require.Contains(t, result.Context, "row")
		assert.Equal(t, 3, result.Context["row"])
	})

	t.Run("keeps existing context", func(t *testing.T) {
		appError := NewLoadError("malformed csv", nil).WithContext("path", "data.csv")

		appError.WithContext("line", 7)

		assert.Equal(t, "data.csv", appError.Context["path"])
		assert.Equal(t, 7, appError.Context["line"])
	})
}

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{"load", NewLoadError("load", cause), ErrTypeLoad},
		{"schema", NewSchemaError("schema", cause), ErrTypeSchema},
		{"persist", NewPersistError("persist", cause), ErrTypePersist},
		{"config", NewConfigError("config", cause), ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.name, tt.err.Message)
			assert.Same(t, cause, tt.err.Cause)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestPredicates_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("run failed: %w", NewSchemaError("column timestamp not found", nil))

	assert.True(t, IsSchemaError(wrapped))
	assert.False(t, IsLoadError(wrapped))
	assert.False(t, IsPersistError(wrapped))
	assert.False(t, IsConfigError(wrapped))
	assert.Equal(t, ErrTypeSchema, ErrorTypeOf(wrapped))

	assert.True(t, IsLoadError(NewLoadError("x", nil)))
	assert.True(t, IsPersistError(NewPersistError("x", nil)))
	assert.True(t, IsConfigError(NewConfigError("x", nil)))

	assert.Equal(t, ErrorType(""), ErrorTypeOf(errors.New("plain")))
	assert.Equal(t, ErrorType(""), ErrorTypeOf(nil))
}
