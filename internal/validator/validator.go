// Package validator provides custom validation functions for Gin's binding
// engine and translates binding failures into field-level error details.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "finbook/internal/errors"
)

var sortOptionRegex = regexp.MustCompile(`^(date|amount):(asc|desc)$`)

// Register registers all custom validators with the Gin binding engine and
// configures json tag names for error reporting.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("sort_option", validateSortOption)
	}
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateSortOption(fl validator.FieldLevel) bool {
	return sortOptionRegex.MatchString(fl.Field().String())
}

// Details converts a binding error into field-level error details.
// Non-validation errors (malformed JSON and the like) yield a single
// detail without a field name.
func Details(err error) []apperrors.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperrors.FieldError{{Message: err.Error()}}
	}

	details := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apperrors.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return details
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be %s characters or less", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "email":
		return "must be a valid email address"
	case "category_type":
		return "must be either expense or income"
	case "sort_option":
		return "must be field:direction over date or amount"
	default:
		return fmt.Sprintf("failed validation on %s", fe.Tag())
	}
}
