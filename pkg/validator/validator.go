package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// report fields the way clients send them
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	fields := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fields
	}

	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			fields[field] = "This field is required."
		case "email":
			fields[field] = "Enter a valid email address."
		case "max":
			fields[field] = "Ensure this field has no more than " + e.Param() + " characters."
		case "min":
			fields[field] = "Ensure this field has at least " + e.Param() + " characters."
		case "uuid":
			fields[field] = "Must be a valid UUID."
		case "datetime":
			fields[field] = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
		default:
			fields[field] = "This field is invalid."
		}
	}

	return fields
}
