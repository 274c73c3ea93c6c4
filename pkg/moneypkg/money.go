// Package moneypkg provides an exact monetary amount type.
//
// Money counts minor units (cents) in an int64 so that arithmetic is exact
// and total. Fractional input beyond two decimal places is rejected rather
// than rounded.
package moneypkg

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotNumeric indicates that the input string is not a decimal number.
	ErrNotNumeric = errors.New("amount is not a number")
	// ErrTooPrecise indicates more decimal places than minor units can hold.
	ErrTooPrecise = errors.New("amount has more than two decimal places")
	// ErrOutOfRange indicates that the amount in minor units does not fit int64.
	ErrOutOfRange = errors.New("amount is out of range")
)

// Money is a monetary amount in minor units (cents).
type Money int64

// Zero is the empty amount.
const Zero Money = 0

// FromString parses a decimal string such as "12.50" into Money.
func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, ErrNotNumeric
	}

	return FromDecimal(d)
}

// FromDecimal converts a decimal amount of major units into Money.
func FromDecimal(d decimal.Decimal) (Money, error) {
	shifted := d.Shift(2)

	if !shifted.IsInteger() {
		return Zero, ErrTooPrecise
	}

	units := shifted.BigInt()
	if !units.IsInt64() {
		return Zero, ErrOutOfRange
	}

	return Money(units.Int64()), nil
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return m - other
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m > 0
}

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// LessThan reports whether m is strictly less than other.
func (m Money) LessThan(other Money) bool {
	return m < other
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String formats the amount in major units with exactly two decimal places.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a quoted decimal string, e.g. "12.50".
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON decodes either a quoted decimal string or a bare number.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)

	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	parsed, err := FromString(s)
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}
