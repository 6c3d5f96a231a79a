package validators

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator wraps go-playground/validator for Echo's Validator interface.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the request validator with the custom password rule
// registered.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterValidation("artpassword", validatePassword)
	return &Validator{validate: v}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// validatePassword enforces the signup password policy: only letters, digits
// and !@#$%^&*, with at least one letter, one digit and one special
// character. Length bounds come from the min/max tags.
func validatePassword(fl validator.FieldLevel) bool {
	const specials = "!@#$%^&*"
	password := fl.Field().String()

	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(specials, r):
			hasSpecial = true
		default:
			return false
		}
	}
	return hasLetter && hasDigit && hasSpecial
}
