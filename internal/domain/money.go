package domain

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a fixed-point currency amount in hundredths of a unit.
// All wallet arithmetic happens on integers; decimal is used only at the
// parse/format boundary so repeated transfers never accumulate drift.
type Cents int64

// ParseAmount converts a decimal string like "12.50" into Cents.
// Amounts with more than two fractional digits are rejected.
func ParseAmount(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q is not a number", ErrValidation, s)
	}
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: amount %q has sub-cent precision", ErrValidation, s)
	}
	return Cents(shifted.IntPart()), nil
}

func (c Cents) Decimal() decimal.Decimal { return decimal.New(int64(c), -2) }

func (c Cents) String() string { return c.Decimal().StringFixed(2) }

// Mul scales the amount by a whole quantity. Overflow is not a practical
// concern at marketplace magnitudes.
func (c Cents) Mul(qty int) Cents { return c * Cents(qty) }

// MarshalJSON renders the amount as a plain JSON number with two decimals,
// e.g. 70.00, matching what API clients expect for currency fields.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (c *Cents) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
