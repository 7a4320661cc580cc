package errors

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrors_Error(t *testing.T) {
	tests := []struct {
		name string
		errs ValidationErrors
		want string
	}{
		{
			name: "empty collection",
			errs: ValidationErrors{},
			want: "validation failed",
		},
		{
			name: "single error",
			errs: ValidationErrors{
				{Field: "title", Message: "is required"},
			},
			want: "validation failed: title is required",
		},
		{
			name: "multiple errors",
			errs: ValidationErrors{
				{Field: "title", Message: "is required"},
				{Field: "duration", Message: "must be at least 1"},
			},
			want: "validation failed: 2 field errors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.errs.Error())
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("subset_size", "must be smaller than the question count", 30)

	assert.Equal(t, "validation error on field 'subset_size': must be smaller than the question count", err.Error())
	assert.Equal(t, 30, err.Value)
}

func TestToValidationErrors(t *testing.T) {
	type createRequest struct {
		Title    string `validate:"required"`
		Duration int    `validate:"required,min=1"`
	}

	validate := validator.New()
	err := validate.Struct(createRequest{})
	require.Error(t, err)

	converted := ToValidationErrors(err)
	require.Len(t, converted, 2)
	assert.Equal(t, "Title", converted[0].Field)
	assert.Equal(t, "is required", converted[0].Message)
	assert.Equal(t, "required", converted[0].Rule)
}

func TestToValidationErrors_NonValidatorError(t *testing.T) {
	converted := ToValidationErrors(assert.AnError)
	assert.Empty(t, converted)
}
