package domain

import "time"

// PricingCalculator derives the buyer-facing price of a product.
type PricingCalculator struct{}

func NewPricingCalculator() *PricingCalculator {
	return &PricingCalculator{}
}

var defaultPricingCalculator = NewPricingCalculator()

// FinalPrice applies the discount when it is active, positive and unexpired at now.
func (pc *PricingCalculator) FinalPrice(price Money, discount *Discount, now time.Time) Money {
	if discount.AppliesAt(now) {
		return discount.Apply(price)
	}
	return price
}

// LineTotal is the price of qty units at unitPrice.
func (pc *PricingCalculator) LineTotal(unitPrice Money, qty int64) Money {
	return unitPrice.MultiplyInt(qty)
}
