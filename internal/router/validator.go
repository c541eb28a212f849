package router

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "studentblog/internal/errors"
)

// CustomValidator wraps validator for Echo and reports failures as one
// readable message per field.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator names fields after their json tags in messages.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, formatValidationError(fe))
	}
	return apperrors.NewValidationError(messages...)
}

func formatValidationError(e validator.FieldError) string {
	isText := e.Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		if isText {
			return e.Field() + " must be at least " + e.Param() + " characters"
		}
		return e.Field() + " must be at least " + e.Param()
	case "max":
		if isText {
			return e.Field() + " must be at most " + e.Param() + " characters"
		}
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "url":
		return e.Field() + " must be a valid URL"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
