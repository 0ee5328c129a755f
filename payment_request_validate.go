package wise

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	hundred             = decimal.NewFromInt(100)
	validate            = newValidator()
)

// Validate checks every precondition of the invoice lifecycle that can be
// verified locally: balance id present, due date set, positive quantities,
// non-negative amounts, well-formed currency codes and tax percentages.
// A validation failure means zero remote calls were issued.
func (d PaymentRequestDraft) Validate() error {
	if err := validate.Struct(d); err != nil {
		return normalizeValidationError(err)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	if err := v.RegisterValidation("currency_code", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return currencyCodePattern.MatchString(value)
	}); err != nil {
		panic(err)
	}

	if err := v.RegisterValidation("decimal_nonneg", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(decimal.Decimal)
		if !ok {
			return false
		}
		return !value.IsNegative()
	}); err != nil {
		panic(err)
	}

	if err := v.RegisterValidation("percentage", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(decimal.Decimal)
		if !ok {
			return false
		}
		return !value.IsNegative() && value.LessThanOrEqual(hundred)
	}); err != nil {
		panic(err)
	}

	return v
}

func normalizeValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	first := validationErrs[0]
	return fmt.Errorf("%s %s", fieldPath(first), validationMessage(first))
}

func fieldPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		path = path[idx+1:]
	}
	if path == "" {
		return fe.Field()
	}
	return path
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "currency_code":
		return "must be an uppercase 3-letter ISO-4217 code"
	case "decimal_nonneg":
		return "must not be negative"
	case "percentage":
		return "must be between 0 and 100"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
