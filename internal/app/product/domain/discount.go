package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount is a percentage markdown a supplier can switch on for a product.
// A nil expiry means the discount runs until switched off.
type Discount struct {
	percentage decimal.Decimal
	active     bool
	expiresAt  *time.Time
}

// NewDiscount validates and creates a Discount.
func NewDiscount(percentage decimal.Decimal, active bool, expiresAt *time.Time) (*Discount, error) {
	if percentage.IsNegative() || percentage.GreaterThan(hundred) {
		return nil, ErrInvalidDiscountPercent
	}

	var exp *time.Time
	if expiresAt != nil {
		t := expiresAt.UTC()
		exp = &t
	}

	return &Discount{percentage: percentage, active: active, expiresAt: exp}, nil
}

func (d *Discount) Percentage() decimal.Decimal { return d.percentage }
func (d *Discount) Active() bool                { return d.active }

// ExpiresAt returns a copy of the expiry, or nil.
func (d *Discount) ExpiresAt() *time.Time {
	if d.expiresAt == nil {
		return nil
	}
	t := *d.expiresAt
	return &t
}

// Equal reports whether d and other carry the same percentage, flag and
// expiry. Two nil discounts are equal.
func (d *Discount) Equal(other *Discount) bool {
	if d == nil || other == nil {
		return d == other
	}
	if !d.percentage.Equal(other.percentage) || d.active != other.active {
		return false
	}
	if d.expiresAt == nil || other.expiresAt == nil {
		return d.expiresAt == other.expiresAt
	}
	return d.expiresAt.Equal(*other.expiresAt)
}

// AppliesAt reports whether the discount reduces the price at t.
func (d *Discount) AppliesAt(t time.Time) bool {
	if d == nil || !d.active || !d.percentage.IsPositive() {
		return false
	}
	return d.expiresAt == nil || t.Before(*d.expiresAt)
}

// Apply returns price - price*percentage/100.
func (d *Discount) Apply(price Money) Money {
	return price.Subtract(price.Percent(d.percentage))
}
