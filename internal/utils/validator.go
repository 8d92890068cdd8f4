// internal/utils/validator.go
package utils

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const maxBrandNameLength = 100

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("brand_name", validateBrandName)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Brand names are labels shown on the storefront, so surrounding blanks do
// not count towards the content.
func validateBrandName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	return name != "" && utf8.RuneCountInString(name) <= maxBrandNameLength
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "gte":
		return e.Field() + " must be greater than or equal to " + e.Param()
	case "url":
		return e.Field() + " must be an absolute URL"
	case "eqfield":
		return "Passwords do not match"
	case "unique":
		return e.Field() + " must not contain repeated entries"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "brand_name":
		return "Brand name must not be blank"
	default:
		return e.Field() + " is invalid"
	}
}
