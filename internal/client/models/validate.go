package models

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/passy1977/pocket-web-backend/internal/common"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("user_status", func(fl validator.FieldLevel) bool {
			return UserStatus(fl.Field().Int()).Valid()
		})
	})
	return validate
}

// Validate checks the struct tags of v. Failures wrap common.ErrInvalidArgument.
func Validate(v any) error {
	if err := validatorInstance().Struct(v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	return nil
}
