package request

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/huynhanx03/xk6-queue/pkg/common/http/validation"
)

var (
	ErrBind     = errors.New("request: bind failed")
	ErrValidate = errors.New("request: validation failed")
)

// ParseRequest binds path, query and (when present) JSON body parameters into
// a T and validates it.
func ParseRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindUri(&req); err != nil {
		return nil, errors.Wrap(ErrBind, err.Error())
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		return nil, errors.Wrap(ErrBind, err.Error())
	}
	if hasBody(c.Request) {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, errors.Wrap(ErrBind, err.Error())
		}
	}

	if err := validation.IsRequestValid(req); err != nil {
		return &req, errors.WithMessage(err, ErrValidate.Error())
	}

	return &req, nil
}

func hasBody(r *http.Request) bool {
	return r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}
