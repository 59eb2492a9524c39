package api

import (
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var (
	// handleRe is the username allowlist. Quotes and semicolons are
	// deliberately allowed; they are ordinary data to an in-memory
	// directory.
	handleRe = regexp.MustCompile(`^[a-zA-Z0-9_\-'";]+$`)
	phoneRe  = regexp.MustCompile(`^\+?1?\d{9,15}$`)
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface, with the directory's custom field rules registered.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator builds the validator used for all request bodies
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	_ = v.RegisterValidation("handlechars", func(fl validator.FieldLevel) bool {
		return handleRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phonefmt", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	return &RequestValidator{validate: v}
}

// Validate implements echo.Validator
func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
