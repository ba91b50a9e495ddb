package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for design model construction
var (
	ErrInvalidClass   = errors.New("invalid class")
	ErrDuplicateClass = errors.New("duplicate class id")
	ErrUnknownClass   = errors.New("unknown class id")
	ErrSelfEdge       = errors.New("self dependency")
)

// Error codes used by DomainError
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeParseError   = "PARSE_ERROR"
	ErrCodeConfigError  = "CONFIG_ERROR"
	ErrCodeModelError   = "MODEL_ERROR"
	ErrCodeCalibration  = "CALIBRATION_ERROR"
	ErrCodeOutputError  = "OUTPUT_ERROR"
)

// DomainError is an error with a machine-readable code
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a DomainError
func NewDomainError(code, message string, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, Cause: cause}
}

// NewInvalidInputError creates an INVALID_INPUT error
func NewInvalidInputError(message string, cause error) *DomainError {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewParseError creates a PARSE_ERROR error
func NewParseError(message string, cause error) *DomainError {
	return NewDomainError(ErrCodeParseError, message, cause)
}

// NewConfigError creates a CONFIG_ERROR error
func NewConfigError(message string, cause error) *DomainError {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewModelError creates a MODEL_ERROR error
func NewModelError(message string, cause error) *DomainError {
	return NewDomainError(ErrCodeModelError, message, cause)
}

// NewCalibrationError creates a CALIBRATION_ERROR error
func NewCalibrationError(message string, cause error) *DomainError {
	return NewDomainError(ErrCodeCalibration, message, cause)
}

// NewOutputError creates an OUTPUT_ERROR error
func NewOutputError(message string, cause error) *DomainError {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// ErrorCode extracts the DomainError code from err, or "" if none
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
