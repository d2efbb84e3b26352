package helper

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func ValidateInput(input interface{}) error {
	return validate.Struct(input)
}

// ToBaseUnits converts a decimal amount from a request into smallest
// units. Amounts travel as integers already scaled by the caller, so
// fractional or negative values are rejected.
func ToBaseUnits(d decimal.Decimal) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, fmt.Errorf("amount must not be negative")
	}
	if !d.IsInteger() {
		return nil, fmt.Errorf("amount must be a whole number of base units")
	}

	amount, overflow := uint256.FromBig(d.BigInt())
	if overflow {
		return nil, fmt.Errorf("amount exceeds 256 bits")
	}
	return amount, nil
}

// FromBaseUnits renders a smallest-unit amount for a response.
func FromBaseUnits(amount *uint256.Int) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount.ToBig(), 0)
}
