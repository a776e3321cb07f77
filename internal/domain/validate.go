package domain

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// decimals are compared as floats by the gte/lte tags
		validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
	})
	return validate
}

// ValidateSalesperson checks required fields of a salesperson record.
func ValidateSalesperson(s Salesperson) error {
	if err := getValidator().Struct(s); err != nil {
		return fmt.Errorf("%w: salesperson %q: %v", ErrInvalidRecord, s.ID, err)
	}
	return nil
}

// ValidateSale checks required fields and a non-negative amount in whole
// cents.
func ValidateSale(s Sale) error {
	if err := getValidator().Struct(s); err != nil {
		return fmt.Errorf("%w: sale %q: %v", ErrInvalidRecord, s.ID, err)
	}
	if !inCents(s.Amount) {
		return fmt.Errorf("%w: sale %q: amount %s has more than %d decimal places", ErrInvalidRecord, s.ID, s.Amount, centsPlaces)
	}
	return nil
}

// centsPlaces matches the NUMERIC(14,2) and NUMERIC(5,2) columns.
const centsPlaces = 2

func inCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(centsPlaces))
}

// ValidateRule checks a single tier. Coverage of the whole set is not
// checked here, see commission.CheckCoverage.
func ValidateRule(r RateRule) error {
	if err := getValidator().Struct(r); err != nil {
		return fmt.Errorf("%w: rule %q: %v", ErrInvalidRecord, r.ID, err)
	}
	for _, d := range []decimal.Decimal{r.Minimum, r.Maximum, r.Percentage} {
		if !inCents(d) {
			return fmt.Errorf("%w: rule %q: %s has more than %d decimal places", ErrInvalidRecord, r.ID, d, centsPlaces)
		}
	}
	if r.Maximum.LessThan(r.Minimum) {
		return fmt.Errorf("%w: rule %q: maximum %s below minimum %s", ErrInvalidRecord, r.ID, r.Maximum, r.Minimum)
	}
	return nil
}

func ValidateSalespeople(list []Salesperson) error {
	for _, s := range list {
		if err := ValidateSalesperson(s); err != nil {
			return err
		}
	}
	return nil
}

func ValidateSales(list []Sale) error {
	for _, s := range list {
		if err := ValidateSale(s); err != nil {
			return err
		}
	}
	return nil
}

func ValidateRules(list []RateRule) error {
	for _, r := range list {
		if err := ValidateRule(r); err != nil {
			return err
		}
	}
	return nil
}
