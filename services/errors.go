package services

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeAuthentication ErrorCode = "AUTHENTICATION_ERROR"
	CodeForbidden      ErrorCode = "FORBIDDEN"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeInvalidState   ErrorCode = "INVALID_STATE"
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// AppError is the error shape every service returns; handlers map it to the
// {error, message} JSON envelope with the carried HTTP status.
type AppError struct {
	Code       ErrorCode
	HTTPStatus int
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ErrValidation(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeValidation, HTTPStatus: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func ErrForbidden(message string) *AppError {
	return &AppError{Code: CodeForbidden, HTTPStatus: http.StatusForbidden, Message: message}
}

func ErrNotFound(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeNotFound, HTTPStatus: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func ErrConflict(message string) *AppError {
	return &AppError{Code: CodeConflict, HTTPStatus: http.StatusConflict, Message: message}
}

// ErrDuplicateBid is a conflict surfaced with a 400 status, matching the
// bid-submission contract.
func ErrDuplicateBid(message string) *AppError {
	return &AppError{Code: CodeConflict, HTTPStatus: http.StatusBadRequest, Message: message}
}

func ErrInvalidState(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeInvalidState, HTTPStatus: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func ErrInternal(message string, err error) *AppError {
	return &AppError{Code: CodeInternal, HTTPStatus: http.StatusInternalServerError, Message: message, Err: err}
}

// AsAppError unwraps err into an AppError, converting unknown errors to an
// internal error with the raw message surfaced.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal(err.Error(), err)
}
