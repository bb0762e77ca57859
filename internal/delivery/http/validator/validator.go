// Package validator adapts go-playground/validator to echo's Validator hook.
package validator

import (
	domainerrors "warden/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// Validator wraps a validator instance for echo.
type Validator struct {
	validate *validator.Validate
}

// New creates the echo request validator.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator. Failures surface as a 400 AppError so
// the error handler renders them uniformly.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	return nil
}
