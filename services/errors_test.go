package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDomainError(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeWrite, "write failed", baseErr)

	assert.Equal(t, ErrorTypeWrite, domainErr.Type)
	assert.Equal(t, "write failed", domainErr.Message)
	assert.Equal(t, baseErr, domainErr.Err)
	assert.NotNil(t, domainErr.Details)
}

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *DomainError
		wantMsg string
	}{
		{
			name:    "error with wrapped error",
			err:     &DomainError{Type: ErrorTypeParse, Message: "Invalid JSON", Err: errors.New("unexpected EOF")},
			wantMsg: "parse: Invalid JSON (unexpected EOF)",
		},
		{
			name:    "error without wrapped error",
			err:     &DomainError{Type: ErrorTypeAuth, Message: "Missing signature"},
			wantMsg: "auth: Missing signature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestDomainError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := fmt.Errorf("writing row: %w", WrapInternal(cause))

	assert.True(t, IsInternalError(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, errors.Is(err, ErrInsertFailed))

	assert.True(t, errors.Is(WrapConfig(errors.New("missing key")), ErrServerConfig))
	assert.True(t, errors.Is(WrapParse(errors.New("bad")), ErrInvalidJSON))
}

func TestDomainError_WithDetail(t *testing.T) {
	err := NewDomainError(ErrorTypeWrite, "Failed to insert", nil).
		WithDetail("status", 503)

	assert.Equal(t, 503, err.Details["status"])
	assert.Equal(t, map[string]interface{}{"status": 503}, GetErrorDetails(err))
	assert.Nil(t, GetErrorDetails(errors.New("plain")))
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"missing signature is auth", ErrMissingSignature, IsAuthError},
		{"invalid signature is auth", ErrInvalidSignature, IsAuthError},
		{"invalid json is parse", ErrInvalidJSON, IsParseError},
		{"server config is config", ErrServerConfig, IsConfigError},
		{"insert failed is write", ErrInsertFailed, IsWriteError},
		{"wrapped internal", WrapInternal(errors.New("boom")), IsInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.False(t, tt.check(errors.New("plain error")))
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "Missing signature", GetErrorMessage(ErrMissingSignature))
	assert.Equal(t, "Server config error", GetErrorMessage(WrapConfig(errors.New("NOTION_DATABASE_ID unset"))))
	assert.Equal(t, "Error: boom", GetErrorMessage(WrapInternal(errors.New("boom"))))
	assert.Equal(t, "Error: boom", GetErrorMessage(errors.New("boom")))
}

func TestGetErrorType(t *testing.T) {
	require.Equal(t, ErrorTypeWrite, GetErrorType(fmt.Errorf("ctx: %w", ErrInsertFailed)))
	assert.Equal(t, ErrorType(""), GetErrorType(errors.New("plain")))
}
