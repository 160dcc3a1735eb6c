package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies an AppError. Handlers map it to an HTTP status and the
// waiting list engine uses it to decide whether a failure is already typed.
type ErrorType string

const (
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeConflict   ErrorType = "CONFLICT"

	// ErrorTypeInvalidTransition is a status change the state machine forbids
	ErrorTypeInvalidTransition ErrorType = "INVALID_TRANSITION"

	// ErrorTypePersistence means the store failed a read or write. Local state was not changed.
	ErrorTypePersistence ErrorType = "PERSISTENCE"

	// ErrorTypePartialFailure means the primary write landed but a follow-up write did not
	ErrorTypePartialFailure ErrorType = "PARTIAL_FAILURE"

	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal is a failure reported by a third-party API
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError is a classified error with an optional cause
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return string(e.Type) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds an AppError of type t wrapping cause, which may be nil
func New(t ErrorType, message string, cause error) *AppError {
	return &AppError{Type: t, Message: message, Err: cause}
}

func NewNotFoundError(message string) *AppError {
	return New(ErrorTypeNotFound, message, nil)
}

func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, message, nil)
}

func NewConflictError(message string, err error) *AppError {
	return New(ErrorTypeConflict, message, err)
}

func NewInvalidTransitionError(message string) *AppError {
	return New(ErrorTypeInvalidTransition, message, nil)
}

func NewPersistenceError(message string, err error) *AppError {
	return New(ErrorTypePersistence, message, err)
}

func NewPartialFailureError(message string, err error) *AppError {
	return New(ErrorTypePartialFailure, message, err)
}

func NewInternalError(message string, err error) *AppError {
	return New(ErrorTypeInternal, message, err)
}

func NewExternalError(message string, err error) *AppError {
	return New(ErrorTypeExternal, message, err)
}

// TypeOf returns the type of the outermost AppError in err's chain, or ""
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return ""
	}
	return appErr.Type
}

// IsType reports whether err carries an AppError of type t
func IsType(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

func IsConflict(err error) bool {
	return IsType(err, ErrorTypeConflict)
}
