package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

// ParseMinor converts a decimal string like "12.50" into minor units (1250).
// At most two fractional digits are accepted.
func ParseMinor(input string) (int64, error) {
	amount, err := decimal.NewFromString(input)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if amount.Exponent() < -2 {
		return 0, ErrTooManyDecimals
	}
	return amount.Shift(2).IntPart(), nil
}

// FormatMinor renders minor units as a two-decimal string.
func FormatMinor(value int64) string {
	return decimal.New(value, -2).StringFixed(2)
}

func MustParseMinor(input string) int64 {
	minor, err := ParseMinor(input)
	if err != nil {
		panic(err)
	}
	return minor
}
