// Package validator checks planning entries before they are persisted.
//
// Rules live as `validate` struct tags on the planning types. Decimal
// amounts are compared as numbers, and two custom tags are registered:
//
//	month         canonical or case-insensitive English month name, or 1-12
//	expense_type  one of planning.ExpenseTypes
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		_, err := planning.ParsePeriod(fl.Field().String(), 2000)
		return err == nil
	})
	_ = v.RegisterValidation("expense_type", func(fl validator.FieldLevel) bool {
		return planning.ExpenseType(fl.Field().String()).Valid()
	})

	return v
}

// Validator returns the shared validator so the HTTP layer binds requests
// with the same rules.
func Validator() *validator.Validate {
	return validate
}

// BudgetEntry validates a budget line.
func BudgetEntry(e *planning.BudgetEntry) error {
	return check(e)
}

// AdProductEntry validates an ad product record.
func AdProductEntry(e *planning.AdProductEntry) error {
	return check(e)
}

// SellingTargetEntry validates a day's plan vs. actual.
func SellingTargetEntry(e *planning.SellingTargetEntry) error {
	if e.AdProductEntryID <= 0 {
		return planning.NewValidationError("ad_product_entry_id", "is required")
	}
	if e.Date.IsZero() {
		return planning.NewValidationError("date", "is required")
	}
	return check(e)
}

func check(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}
	return toValidationError(fieldErrs[0])
}

// toValidationError turns the first failing rule into a readable message.
func toValidationError(fe validator.FieldError) *planning.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return planning.NewValidationError(field, "is required")
	case "gte":
		if fe.Param() == "0" {
			return planning.NewValidationError(field, "must not be negative")
		}
		return planning.NewValidationError(field, "must be at least "+fe.Param())
	case "lte", "max":
		return planning.NewValidationError(field, "must be at most "+fe.Param())
	case "len":
		return planning.NewValidationError(field, fmt.Sprintf("must be %s characters", fe.Param()))
	case "alpha":
		return planning.NewValidationError(field, "must contain letters only")
	case "month":
		return planning.NewValidationError(field, fmt.Sprintf("invalid month %q", fe.Value()))
	case "expense_type":
		return planning.NewValidationError(field, fmt.Sprintf("unknown expense type %q", fe.Value()))
	default:
		return planning.NewValidationError(field, "failed "+fe.Tag()+" check")
	}
}
