package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeAuth     ErrorType = "auth"
	ErrorTypeParse    ErrorType = "parse"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeWrite    ErrorType = "write"
	ErrorTypeInternal ErrorType = "internal"
)

// DomainError represents a structured error with additional context.
// Message is the short detail shown to the webhook caller.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables. Messages are the exact details returned to callers.

var (
	// Authentication Errors
	ErrMissingSignature = NewDomainError(ErrorTypeAuth, "Missing signature", nil)
	ErrInvalidSignature = NewDomainError(ErrorTypeAuth, "Invalid signature", nil)

	// Parse Errors
	ErrInvalidJSON = NewDomainError(ErrorTypeParse, "Invalid JSON", nil)

	// Configuration Errors
	ErrServerConfig = NewDomainError(ErrorTypeConfig, "Server config error", nil)

	// Write Errors
	ErrInsertFailed = NewDomainError(ErrorTypeWrite, "Failed to insert", nil)
)

// Error type checking helper functions

// IsAuthError checks if an error is a signature/authentication error
func IsAuthError(err error) bool {
	return hasType(err, ErrorTypeAuth)
}

// IsParseError checks if an error is a payload parse error
func IsParseError(err error) bool {
	return hasType(err, ErrorTypeParse)
}

// IsConfigError checks if an error is a server configuration error
func IsConfigError(err error) bool {
	return hasType(err, ErrorTypeConfig)
}

// IsWriteError checks if an error is a destination write error
func IsWriteError(err error) bool {
	return hasType(err, ErrorTypeWrite)
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return hasType(err, ErrorTypeInternal)
}

func hasType(err error, t ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == t
	}
	return false
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorMessage returns the caller-facing message of a domain error,
// or "Error: <err>" for anything else.
func GetErrorMessage(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "Error: " + err.Error()
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error. The caller sees "Error: <err>".
func WrapInternal(err error) error {
	return NewDomainError(ErrorTypeInternal, "Error: "+err.Error(), err)
}

// WrapConfig wraps a configuration problem, keeping the cause for logs only
func WrapConfig(err error) error {
	return NewDomainError(ErrorTypeConfig, ErrServerConfig.Message, err)
}

// WrapParse wraps a decoding problem, keeping the cause for logs only
func WrapParse(err error) error {
	return NewDomainError(ErrorTypeParse, ErrInvalidJSON.Message, err)
}
