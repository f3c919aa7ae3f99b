package apperr

import (
	"fmt"
)

// Business codes
const (
	CodeInternal     = 5000
	CodeInvalidInput = 4000
	CodeInvalidName  = 4001
	CodeUnsupported  = 4002
	CodeNotFound     = 4040
	CodeQueueFull    = 4290
)

// Generic Action Messages
const (
	MsgPushFailed    = "failed to push"
	MsgPopFailed     = "failed to pop"
	MsgClearFailed   = "failed to clear"
	MsgGetFailed     = "failed to get"
	MsgProcessFailed = "failed to process"
	MsgNotFound      = "not found"
	MsgInvalidInput  = "invalid input"
)

// MapError wraps an error with a standardized message
func MapError(scope string, err error, code int, msg string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}

	formattedMsg := fmt.Sprintf("%s %s", scope, msg)
	return Wrap(err, code, formattedMsg, httpStatus)
}

// NewError creates a new AppError with standardized message format
func NewError(scope string, code int, msg string, httpStatus int, cause error) *AppError {
	formattedMsg := fmt.Sprintf("%s %s", scope, msg)
	return New(code, formattedMsg, httpStatus, cause)
}
