package validation

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// IsRequestValid validates req against its `validate` tags.
func IsRequestValid(req any) error {
	return validate.Struct(req)
}
