package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type credentials struct {
	APIKey     string `validate:"required"`
	DatabaseID string `validate:"required"`
	BaseURL    string `validate:"omitempty,url"`
	Retries    int    `validate:"min=1"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      credentials
		wantErr    bool
		wantFields []string
	}{
		{
			name:  "valid",
			input: credentials{APIKey: "k", DatabaseID: "db", BaseURL: "https://api.composio.dev/v1", Retries: 3},
		},
		{
			name:       "missing required",
			input:      credentials{Retries: 1},
			wantErr:    true,
			wantFields: []string{"APIKey", "DatabaseID"},
		},
		{
			name:       "bad url and min",
			input:      credentials{APIKey: "k", DatabaseID: "db", BaseURL: "not a url", Retries: 0},
			wantErr:    true,
			wantFields: []string{"BaseURL", "Retries"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			fields := GetValidationFields(err)
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
			assert.Len(t, fields, len(tt.wantFields))
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Message: "Validation failed"}
	assert.Equal(t, "Validation failed", err.Error())

	err.Fields = map[string]string{"DatabaseID": "DatabaseID is required", "APIKey": "APIKey is required"}
	assert.Equal(t, "Validation failed: [APIKey DatabaseID]", err.Error())
}

func TestNewValidationError_Messages(t *testing.T) {
	err := ValidateStruct(credentials{BaseURL: "::", Retries: 0})
	fields := GetValidationFields(err)

	assert.Equal(t, "APIKey is required", fields["APIKey"])
	assert.Equal(t, "BaseURL must be a valid URL", fields["BaseURL"])
	assert.Equal(t, "Retries must be at least 1", fields["Retries"])
}

func TestIsValidationError(t *testing.T) {
	assert.False(t, IsValidationError(errors.New("plain")))
	assert.Nil(t, GetValidationFields(errors.New("plain")))
}
