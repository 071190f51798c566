// Package validation wires go-playground/validator up with the rules
// specific to this application and exposes a single shared instance.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// emailRe is deliberately stricter than validator's builtin "email"
// tag: only lowercase letters are accepted in the local part and
// domain. Uppercase input is a validation error, not normalized.
var emailRe = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// RegisterValidation only errors for a blank tag name.
	_ = v.RegisterValidation("student_email", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})
	return v
}

// Struct checks all validate tags on v, returning
// validator.ValidationErrors on failure.
func Struct(v any) error {
	return validate.Struct(v)
}
