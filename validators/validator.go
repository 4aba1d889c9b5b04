// Package validators wires go-playground/validator into Echo and registers
// the custom rules the request DTOs use.
package validators

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/nayeem-dv/socialdeck/backend/internal/apperrors"
)

var (
	imageURLPattern = regexp.MustCompile(`(?i)^https?://\S+\.(jpg|jpeg|png|gif|webp)(\?\S*)?$`)
	tagPattern      = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,50}$`)
)

// Validator implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the shared validator with custom rules registered.
func NewValidator() *Validator {
	v := validator.New()
	// The registrations only fail for empty tag names.
	_ = v.RegisterValidation("password", validatePassword)
	_ = v.RegisterValidation("imageurl", validateImageURL)
	_ = v.RegisterValidation("tag", validateTag)
	return &Validator{validate: v}
}

// Validate checks a request struct and converts failures into a
// field-detailed validation error.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		return apperrors.Validation("Validation failed", Fields(valErrs)...)
	}
	return apperrors.Validation(err.Error())
}

// Fields converts validator errors into field-level details with the JSON
// field casing clients see.
func Fields(valErrs validator.ValidationErrors) []apperrors.FieldError {
	out := make([]apperrors.FieldError, 0, len(valErrs))
	for _, fe := range valErrs {
		out = append(out, apperrors.FieldError{
			Field:   jsonFieldName(fe.Field()),
			Message: messageFor(fe),
			Value:   fe.Value(),
		})
	}
	return out
}

func jsonFieldName(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s long", fe.Param())
	case "alphanum":
		return "must contain only letters and digits"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return fmt.Sprintf("must match %s", jsonFieldName(fe.Param()))
	case "password":
		return "must be at least 8 characters and contain an uppercase letter, a lowercase letter and a digit"
	case "imageurl":
		return "must be an http(s) URL ending in a recognized image extension"
	case "tag":
		return "must be 1-50 characters of letters, digits, hyphens or underscores"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// validatePassword enforces the password policy: minimum 8 characters with
// at least one uppercase letter, one lowercase letter and one digit.
func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

func validateImageURL(fl validator.FieldLevel) bool {
	return imageURLPattern.MatchString(fl.Field().String())
}

func validateTag(fl validator.FieldLevel) bool {
	return tagPattern.MatchString(fl.Field().String())
}
