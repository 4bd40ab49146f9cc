package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries an HTTP status code alongside the message returned to the
// client. Op identifies the operation that failed; Err holds the wrapped cause
// and is logged, never serialized.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// AsAppError unwraps err to an *AppError if one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func InvalidInput(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func Unauthorized(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func NotFound(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func RateLimited(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusTooManyRequests,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// Upstream wraps an unexpected provider-side failure. The wrapped cause is
// kept for logging; the client only ever sees the generic message.
func Upstream(op string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "Internal server error",
		Op:      op,
		Err:     err,
	}
}

func Internal(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Op:      op,
		Err:     err,
	}
}
