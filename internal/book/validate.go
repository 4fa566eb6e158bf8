package book

import (
	"fmt"
	"strings"

	"bookclub/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateStruct turns validator failures into a single validation error
// listing every failed constraint.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var messages []string
	for _, fieldErr := range err.(validator.ValidationErrors) {
		field := fieldErr.Field()
		fieldName := strings.ToLower(field[:1]) + field[1:]

		var message string
		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fieldName)
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", fieldName)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", fieldName, fieldErr.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", fieldName, fieldErr.Param())
		default:
			message = fmt.Sprintf("%s is invalid", fieldName)
		}
		messages = append(messages, message)
	}

	return apperr.Validation(strings.Join(messages, "; "))
}
