package validator

import (
	"errors"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

const anonymousField = "value"

var messages = map[string]string{
	"required": "{field} is required",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"gt":       "{field} must be greater than {param}",
	"oneof":    "{field} must be one of {param}",
	"max":      "{field} must be at most {param}",
	"min":      "{field} must be at least {param}",
	"email":    "{field} must be a valid email address",
	"day":      "{field} must be a date in YYYY-MM-DD format",
	"uuid":     "{field} must be a valid UUID",
	"empty":    "{field} must be empty",
}

// jsonName reports struct fields by their json key so messages match the request body.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	return name
}

func describe(fieldErr val.FieldError) string {
	field := fieldErr.Field()
	if field == "" {
		field = anonymousField
	}

	template, ok := messages[fieldErr.Tag()]
	if !ok {
		return field + " failed the " + fieldErr.Tag() + " rule"
	}

	return strings.NewReplacer("{field}", field, "{param}", fieldErr.Param()).Replace(template)
}

// message flattens validation errors into one line, one clause per failed field.
func message(err error) string {
	var fieldErrs val.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		parts = append(parts, describe(fieldErr))
	}

	return strings.Join(parts, "; ")
}
