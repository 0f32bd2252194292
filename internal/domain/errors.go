package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured application error with HTTP status code.
// Details, when set, is merged into the error response body.
type AppError struct {
	Code    int                    `json:"code"`
	Message string                 `json:"error"`
	Details map[string]interface{} `json:"-"`
	Err     error                  `json:"-"`
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

// Common error constructors.

func ErrNotFound(msg string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: msg}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: msg}
}

func ErrBadRequest(msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: msg}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Message: msg}
}

func ErrInternal(msg string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: msg, Err: err}
}

// ErrPlanLimit is raised by the trip-creation workflow when the usage gate
// rejects a new trip. It carries the numbers the UI needs to render an
// upgrade prompt.
func ErrPlanLimit(remainingTrips, maxTrips int) *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Message: "plan limit reached",
		Details: map[string]interface{}{
			"remainingTrips": remainingTrips,
			"maxTrips":       maxTrips,
		},
	}
}

// AsAppError attempts to extract an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
