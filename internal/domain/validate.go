package domain

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkVar runs a validator tag against a single value and turns a failure into a FieldError.
func checkVar(field string, value any, tag, message string) *FieldError {
	if err := validate.Var(value, tag); err != nil {
		return &FieldError{Field: field, Message: message}
	}
	return nil
}

func collect(errs ...*FieldError) []FieldError {
	var out []FieldError
	for _, e := range errs {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out
}
