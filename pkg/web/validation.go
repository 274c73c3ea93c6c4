package web

import "github.com/go-playground/validator/v10"

// GetErrorMsg renders the first binding validation error as a user message.
func GetErrorMsg(ve validator.ValidationErrors) string {
	if len(ve) == 0 {
		return ""
	}

	field := ve[0]

	switch field.Tag() {
	case "required":
		return field.Field() + " is required"
	case "email":
		return field.Field() + " must be a valid email address"
	case "alphanum":
		return field.Field() + " must contain only letters and numbers"
	case "min":
		return field.Field() + " must be at least " + field.Param() + " characters"
	case "gt":
		return field.Field() + " must be greater than " + field.Param()
	default:
		return field.Field() + " is invalid"
	}
}
