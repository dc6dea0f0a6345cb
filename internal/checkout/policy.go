package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"orchid-storefront/internal/config"
)

// Policy holds the pricing rules applied on top of the cart subtotal.
type Policy struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingCost      decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultPolicy returns the stock policy: free shipping at 100, 9.99 flat
// shipping below it, 8% tax.
func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: decimal.NewFromInt(100),
		FlatShippingCost:      decimal.RequireFromString("9.99"),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

// PolicyFromConfig parses the configured policy values.
func PolicyFromConfig(cfg config.CheckoutConfig) (Policy, error) {
	threshold, err := decimal.NewFromString(cfg.FreeShippingThreshold)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid free shipping threshold: %w", err)
	}
	flat, err := decimal.NewFromString(cfg.FlatShippingCost)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid flat shipping cost: %w", err)
	}
	rate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid tax rate: %w", err)
	}
	return Policy{
		FreeShippingThreshold: threshold,
		FlatShippingCost:      flat,
		TaxRate:               rate,
	}, nil
}

// Totals are the derived checkout amounts. The fields keep full precision;
// use Round for presentation.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Totals derives the checkout amounts from a cart subtotal. Tax applies to
// the subtotal before shipping. No intermediate rounding.
func (p Policy) Totals(subtotal decimal.Decimal) Totals {
	shipping := p.FlatShippingCost
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(p.TaxRate)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// Round returns the totals rounded to two decimal places for display.
func (t Totals) Round() Totals {
	return Totals{
		Subtotal: t.Subtotal.Round(2),
		Shipping: t.Shipping.Round(2),
		Tax:      t.Tax.Round(2),
		Total:    t.Total.Round(2),
	}
}
