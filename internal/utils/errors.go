package utils

import (
	"errors"
	"net/http"
)

// ErrRateLimitExceeded is returned by the rate limiter when the caller's
// request budget is exhausted.
var ErrRateLimitExceeded = errors.New("rate_limit_exceeded")

// AppError is the structured error type services hand back to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Details    any
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError is a shorthand for the common no-details case.
func NewAppError(status int, code, message string) *AppError {
	return &AppError{StatusCode: status, Code: code, Message: message}
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Details, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
