package utils

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"

	"agroverse/errx"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks v's validate tags. Any violation becomes a validation
// error carrying message.
func Validate(v any, message string) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return errx.Invalid(message)
	}
	return err
}
