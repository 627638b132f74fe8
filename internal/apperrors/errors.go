package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that a conditional write lost a race against a concurrent writer
// and the winning row could not be read back.
var ErrConflict = errors.New("conflicting concurrent write")

// ErrStorage indicates a failure in the underlying persistence layer.
var ErrStorage = errors.New("storage error")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewStorageError tags err as a storage failure while keeping the driver error in the chain.
func NewStorageError(message string, err error) error {
	return fmt.Errorf("%s: %w: %w", message, ErrStorage, err)
}
