package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Money is the wire representation of an amount: integer minor units plus
// currency metadata. Precision is the number of decimal places the minor
// units represent (2 for cents).
type Money struct {
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency" binding:"required,currencycode"`
	Precision int32  `json:"precision" binding:"gte=0,lte=6"`
}

// ToDecimal returns the amount in minor units as a decimal.
func (m Money) ToDecimal() decimal.Decimal {
	return decimal.NewFromInt(m.Amount)
}

// MoneyFromDecimal wraps a minor-unit decimal in the wire shape.
func MoneyFromDecimal(d decimal.Decimal, currency string, precision int32) Money {
	return Money{
		Amount:    d.IntPart(),
		Currency:  currency,
		Precision: precision,
	}
}

// currencyCodeValidator accepts three-letter uppercase ISO 4217 style codes.
func currencyCodeValidator(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 3 {
		return false
	}
	return code == strings.ToUpper(code)
}

// RegisterValidations adds the custom DTO validations to a validator engine.
// Called from main against gin's binding validator.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("currencycode", currencyCodeValidator)
}
