package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs `validate` tags on API inputs. Returns the first
// validator error verbatim; handlers surface it as a 400.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
