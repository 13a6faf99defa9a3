package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeNoChange      ErrorCode = "NO_CHANGE"
	ErrCodeInvalid       ErrorCode = "INVALID"
	ErrCodeUnprocessable ErrorCode = "UNPROCESSABLE"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeInternal      ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors. Each "no content" cause keeps its own sentinel so
// callers can tell an absent resource from a no-op.
var (
	ErrCustomerNotFound    = NewError(ErrCodeNotFound, "customer not found")
	ErrProgressionNotFound = NewError(ErrCodeNotFound, "employment progression not found")
	ErrEmptyPatch          = NewError(ErrCodeNoChange, "patch payload is empty")
	ErrNotPersisted        = NewError(ErrCodeNoChange, "employment progression was not persisted")
	ErrCustomerReadOnly    = NewError(ErrCodeForbidden, "customer is read only")
	ErrProgressionExists   = NewError(ErrCodeConflict, "employment progression already exists for customer")
	ErrPatchCustomerAbsent = NewError(ErrCodeInvalid, "customer does not exist")
	ErrEmptyBody           = NewError(ErrCodeUnprocessable, "request body is empty")
	ErrInvalidPayload      = NewError(ErrCodeInvalid, "invalid payload")
	ErrMissingTouchpoint   = NewError(ErrCodeInvalid, "touchpoint id header is required")
	ErrMissingBaseURL      = NewError(ErrCodeInvalid, "apimurl header is required")
	ErrInvalidCustomerID   = NewError(ErrCodeInvalid, "customer id is not a valid guid")
	ErrInvalidRecordID     = NewError(ErrCodeInvalid, "employment progression id is not a valid guid")
	ErrNilRecord           = errors.New("employment progression is nil")
	ErrPostcodeNotFound    = NewError(ErrCodeNotFound, "postcode not found")
	ErrGeocodeCacheMiss    = NewError(ErrCodeNotFound, "postcode not cached")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// Violation is a single failed rule for a named field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the complete, ordered violation list.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
