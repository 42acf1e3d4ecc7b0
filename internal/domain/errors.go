package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the outcomes handlers translate to status codes.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account is deactivated, please contact administrator")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrCrossDepartment    = errors.New("you can only access data from your own department")
	ErrNotFound           = errors.New("resource not found")
	ErrEmailExists        = errors.New("user with this email already exists")
	ErrEmployeeIDExists   = errors.New("employee ID already exists")
)

// ValidationError carries field-level details for a 400 response.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

// FieldError is one per-field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%d field errors)", e.Message, len(e.Fields))
}

// NewValidationError builds a ValidationError with a default message.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Message: "Validation errors", Fields: fields}
}

// Validationf builds a single-message ValidationError.
func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsConflict reports whether err is one of the uniqueness-violation errors.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailExists) || errors.Is(err, ErrEmployeeIDExists)
}
