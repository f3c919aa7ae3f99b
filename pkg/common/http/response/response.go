package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/huynhanx03/xk6-queue/pkg/common/apperr"
)

// Response codes
const (
	CodeSuccess          = 2000
	CodeParamInvalid     = 4000
	CodeValidationFailed = 4220
	CodeInternalServer   = 5000
)

var messages = map[int]string{
	CodeSuccess:          "success",
	CodeParamInvalid:     "invalid parameters",
	CodeValidationFailed: "validation failed",
	CodeInternalServer:   "internal server error",
}

// Body is the JSON envelope of every response.
type Body struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// SuccessResponse writes a 200 response carrying data.
func SuccessResponse(c *gin.Context, code int, data any) {
	c.JSON(http.StatusOK, Body{Code: code, Message: messages[code], Data: data})
}

// ErrorResponse writes an error response. AppErrors keep their own code and
// status; anything else uses code with a status derived from it.
func ErrorResponse(c *gin.Context, code int, err error) {
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		c.AbortWithStatusJSON(appErr.HTTPStatus, Body{Code: appErr.Code, Message: appErr.Error()})
		return
	}

	msg := messages[code]
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(statusFor(code), Body{Code: code, Message: msg, Errors: ToErrorResponse(err)})
}

// ToErrorResponse flattens validator errors into field errors.
func ToErrorResponse(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		out[i] = FieldError{Field: fe.Field(), Rule: fe.Tag()}
	}
	return out
}

func statusFor(code int) int {
	switch {
	case code >= 5000:
		return http.StatusInternalServerError
	case code == CodeValidationFailed:
		return http.StatusUnprocessableEntity
	case code >= 4000:
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}
