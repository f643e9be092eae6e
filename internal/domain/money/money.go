// Package money holds the currency amount type shared by fees, payments and fines.
package money

import (
	"bytes"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as bare JSON numbers, matching the persisted documents.
	decimal.MarshalJSONWithoutQuotes = true
}

// Amount is a non-float currency value in the club's minor display unit.
type Amount = decimal.Decimal

// Zero is the zero amount.
var Zero = decimal.Zero

// Domain errors
var (
	ErrNegative = errors.New("amount cannot be negative")
	ErrInvalid  = errors.New("amount must be a number")
)

// New returns an Amount for a whole number.
func New(n int64) Amount {
	return decimal.NewFromInt(n)
}

// Parse reads a strict decimal string.
// PRE: none
// POST: returns ErrInvalid for non-numeric input
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Zero, ErrInvalid
	}
	return d, nil
}

// NonNegative clamps a to zero from below.
func NonNegative(a Amount) Amount {
	if a.IsNegative() {
		return Zero
	}
	return a
}

// Max returns the larger of a and b.
func Max(a, b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// CheckNonNegative returns ErrNegative when a < 0.
func CheckNonNegative(a Amount) error {
	if a.IsNegative() {
		return ErrNegative
	}
	return nil
}

// Input is an amount read from a request body with the default-to-zero policy:
// numbers and numeric strings parse, anything else becomes zero. Set reports
// whether the field was present and not null.
type Input struct {
	Value Amount
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
// PRE: data is a single JSON value
// POST: never fails; non-numeric values become zero
func (in *Input) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*in = Input{}
		return nil
	}
	in.Set = true
	raw := strings.Trim(string(data), `"`)
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		in.Value = Zero
		return nil
	}
	in.Value = d
	return nil
}

// Or returns the input value when set, otherwise fallback.
func (in Input) Or(fallback Amount) Amount {
	if in.Set {
		return in.Value
	}
	return fallback
}
