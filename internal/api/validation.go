package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"ledger-core-go/internal/ledger"
	"ledger-core-go/internal/store"

	"github.com/go-playground/validator/v10"
)

const nationalIdDigits = 11

var (
	validate     *validator.Validate
	validateOnce sync.Once
	errValidate  error
)

func initValidator() (*validator.Validate, error) {
	vld := validator.New(validator.WithRequiredStructEnabled())

	// Report json field names rather than Go field names
	vld.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// national_id accepts punctuated input and checks the digits that remain
	if err := vld.RegisterValidation("national_id", func(fl validator.FieldLevel) bool {
		digits := ledger.NormalizeNationalId(fl.Field().String())
		if len(digits) != nationalIdDigits {
			return false
		}
		for _, r := range digits {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}); err != nil {
		return nil, fmt.Errorf("failed to register 'national_id': %w", err)
	}

	return vld, nil
}

// validateRequest checks payload against its validate tags and returns an
// error wrapping store.ErrValidation that names the first offending field.
func validateRequest(payload any) error {
	validateOnce.Do(func() {
		validate, errValidate = initValidator()
	})
	if errValidate != nil {
		return errValidate
	}

	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %w", store.ErrValidation, err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", store.ErrValidation, fe.Field())
	case "min":
		return fmt.Errorf("%w: %s must be at least %s characters", store.ErrValidation, fe.Field(), fe.Param())
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", store.ErrValidation, fe.Field(), fe.Param())
	case "email":
		return fmt.Errorf("%w: %s must be a valid email address", store.ErrValidation, fe.Field())
	case "uuid":
		return fmt.Errorf("%w: %s must be a valid UUID", store.ErrValidation, fe.Field())
	case "gt":
		return fmt.Errorf("%w: %s must be a positive integer", store.ErrValidation, fe.Field())
	case "national_id":
		return fmt.Errorf("%w: %s must contain %d digits", store.ErrValidation, fe.Field(), nationalIdDigits)
	}
	return fmt.Errorf("%w: %s failed %s check", store.ErrValidation, fe.Field(), fe.Tag())
}
