package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		first := verrs[0]
		return &ValidationError{
			Field:   first.Field(),
			Message: messageFor(first),
		}
	}
	return &ValidationError{Message: err.Error()}
}

func messageFor(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "alphanum":
		return "must contain only letters and numbers"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "gtfield":
		return fmt.Sprintf("must be after %s", err.Param())
	default:
		return fmt.Sprintf("invalid value for %s", err.Field())
	}
}
