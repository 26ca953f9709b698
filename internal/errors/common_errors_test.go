package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    NewAppValidationError("precision out of range"),
			wantMessage: "[VALIDATION] precision out of range",
		},
		{
			name:        "error with cause",
			appError:    NewStorageError("failed to save workbook", fmt.Errorf("disk full")),
			wantMessage: "[STORAGE] failed to save workbook: disk full",
		},
		{
			name:        "not found",
			appError:    NewNotFoundError("sheet Sheet1"),
			wantMessage: "[NOT_FOUND] sheet Sheet1 not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := ErrSheetNotFound
	err := fmt.Errorf("loading input: %w", NewParsingError("cannot read workbook", cause))

	assert.True(t, errors.Is(err, ErrSheetNotFound))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeParsing, appErr.Type)
	assert.True(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(err, ErrTypeConfig))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewConfigError("invalid configuration", nil).
		WithContext("field", "Transform.Precision").
		WithContext("value", 42)

	assert.Equal(t, "Transform.Precision", err.Context["field"])
	assert.Equal(t, 42, err.Context["value"])

	var bare AppError
	bare.WithContext("k", "v")
	assert.Equal(t, "v", bare.Context["k"])
}
