package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Money is an immutable monetary amount backed by an arbitrary-precision decimal.
// The marketplace trades in a single currency, so no currency code is carried.
type Money struct {
	amount decimal.Decimal
}

// NewMoney wraps a decimal amount.
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// MoneyFromInt creates Money from a whole amount.
func MoneyFromInt(amount int64) Money {
	return Money{amount: decimal.NewFromInt(amount)}
}

// MoneyFromString parses a decimal string such as "49.90".
func MoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return Money{amount: d}, nil
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) IsZero() bool            { return m.amount.IsZero() }
func (m Money) IsPositive() bool        { return m.amount.IsPositive() }
func (m Money) IsNegative() bool        { return m.amount.IsNegative() }

func (m Money) Equal(other Money) bool       { return m.amount.Equal(other.amount) }
func (m Money) LessThan(other Money) bool    { return m.amount.LessThan(other.amount) }
func (m Money) GreaterThan(other Money) bool { return m.amount.GreaterThan(other.amount) }

func (m Money) Add(other Money) Money      { return Money{amount: m.amount.Add(other.amount)} }
func (m Money) Subtract(other Money) Money { return Money{amount: m.amount.Sub(other.amount)} }

// MultiplyInt scales the amount by a quantity.
func (m Money) MultiplyInt(qty int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(qty))}
}

// Percent returns pct percent of the amount.
func (m Money) Percent(pct decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(pct).Div(hundred)}
}

// String renders the canonical decimal form ("80", "99.5").
func (m Money) String() string {
	return m.amount.String()
}

// MarshalJSON encodes the amount as a decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.amount.MarshalJSON()
}

// UnmarshalJSON accepts numbers or decimal strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.amount.UnmarshalJSON(data)
}
