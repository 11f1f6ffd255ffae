package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point decimal amount. It wraps shopspring/decimal so that all
// financial sums in the engine share one arithmetic with exact equality; the
// trial balance is compared with zero tolerance, so no float ever enters here.
// The zero value is usable and equals zero.
type Money struct {
	d decimal.Decimal
}

// ZeroMoney returns a zero amount.
func ZeroMoney() Money {
	return Money{}
}

// NewMoneyFromDecimal wraps an existing decimal value.
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d: d}
}

// NewMoneyFromInt creates an amount from an integer number of currency units.
func NewMoneyFromInt(v int64) Money {
	return Money{d: decimal.NewFromInt(v)}
}

// NewMoneyFromString parses a decimal string like "123.45".
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return Money{d: d}, nil
}

// MustMoney parses a decimal string and panics on failure. Test helper.
func MustMoney(s string) Money {
	m, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal exposes the underlying decimal for persistence mapping.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

func (m Money) Add(o Money) Money {
	return Money{d: m.d.Add(o.d)}
}

func (m Money) Sub(o Money) Money {
	return Money{d: m.d.Sub(o.d)}
}

func (m Money) Neg() Money {
	return Money{d: m.d.Neg()}
}

func (m Money) Abs() Money {
	return Money{d: m.d.Abs()}
}

// Equal reports exact equality; 1.50 equals 1.5.
func (m Money) Equal(o Money) bool {
	return m.d.Equal(o.d)
}

// Cmp returns -1, 0 or 1 comparing m against o.
func (m Money) Cmp(o Money) int {
	return m.d.Cmp(o.d)
}

func (m Money) IsZero() bool {
	return m.d.IsZero()
}

func (m Money) IsPositive() bool {
	return m.d.IsPositive()
}

func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

// Round rounds half away from zero to the given number of decimal places.
// This is the single rounding point for tax and discount computations; amounts
// on journal lines themselves are never rounded implicitly.
func (m Money) Round(places int32) Money {
	return Money{d: m.d.Round(places)}
}

// MulRound multiplies by a decimal factor and rounds the result to the given
// number of places in one step, so intermediate products keep full precision.
func (m Money) MulRound(factor decimal.Decimal, places int32) Money {
	return Money{d: m.d.Mul(factor).Round(places)}
}

func (m Money) String() string {
	return m.d.String()
}

// MarshalJSON encodes the amount as a JSON number string, matching decimal's encoding.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.d.MarshalJSON()
}

// UnmarshalJSON decodes either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.d.UnmarshalJSON(data)
}
