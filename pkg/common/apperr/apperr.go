package apperr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// AppError carries a business code and an HTTP status alongside its cause.
type AppError struct {
	Code       int
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// New creates an AppError.
func New(code int, msg string, httpStatus int, cause error) *AppError {
	return &AppError{Code: code, Message: msg, HTTPStatus: httpStatus, Cause: cause}
}

// Wrap attaches code, message and status to err.
func Wrap(err error, code int, msg string, httpStatus int) *AppError {
	return New(code, msg, httpStatus, err)
}

// As returns the AppError in err's chain, or a generic internal error.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(CodeInternal, MsgProcessFailed, http.StatusInternalServerError, err)
}
