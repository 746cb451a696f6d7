// Package money holds the monetary amount type used across the ledger.
//
// Amounts are kept as integer cents so that sums computed by the database
// and in Go are exact. Parsing goes through shopspring/decimal and display
// through go-money's currency formatter.
package money

import (
	"errors"
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the ISO code used when formatting amounts.
const Currency = gomoney.USD

// Max is the largest absolute amount accepted, matching a DECIMAL(10,2) column.
const Max Amount = 99_999_999_99

var (
	// ErrMalformed is returned when a string is not a decimal number.
	ErrMalformed = errors.New("malformed amount")
	// ErrOutOfRange is returned when an amount exceeds Max.
	ErrOutOfRange = errors.New("amount out of range")
)

// Amount is a monetary value expressed in cents.
type Amount int64

// FromCents builds an Amount from a number of cents.
func FromCents(cents int64) Amount { return Amount(cents) }

// FromDecimal rounds d to two fractional digits and converts it to cents.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	cents := d.Round(2).Shift(2)
	if cents.Abs().GreaterThan(decimal.NewFromInt(int64(Max))) {
		return 0, ErrOutOfRange
	}
	return Amount(cents.IntPart()), nil
}

// Parse converts a decimal string such as "45", "45.5" or "$1,234.56" to an Amount.
// A third fractional digit is rounded half away from zero.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, ErrMalformed
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return FromDecimal(d)
}

// Cents returns the raw number of cents.
func (a Amount) Cents() int64 { return int64(a) }

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal { return decimal.New(int64(a), -2) }

// String formats the amount as $#,##0.00, with a leading minus sign when negative.
func (a Amount) String() string {
	return gomoney.New(int64(a), Currency).Display()
}

// Plain formats the amount as 0.00 without currency symbol or grouping.
func (a Amount) Plain() string { return a.Decimal().StringFixed(2) }

// IsPositive reports whether a > 0.
func (a Amount) IsPositive() bool { return a > 0 }

// Percent returns a as a percentage of total, or 0 when total is not positive.
func (a Amount) Percent(total Amount) float64 {
	if total <= 0 {
		return 0
	}
	return a.Decimal().Div(total.Decimal()).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Plain()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
