package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orchid-storefront/internal/config"
)

func TestShippingBoundary(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name     string
		subtotal string
		shipping string
	}{
		{"just below the threshold", "99.99", "9.99"},
		{"exactly at the threshold", "100.00", "0"},
		{"above the threshold", "250.00", "0"},
		{"empty cart", "0", "9.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := policy.Totals(decimal.RequireFromString(tt.subtotal))
			assert.True(t, totals.Shipping.Equal(decimal.RequireFromString(tt.shipping)),
				"shipping %s, expected %s", totals.Shipping, tt.shipping)
		})
	}
}

func TestTaxIsEightPercentOfSubtotal(t *testing.T) {
	policy := DefaultPolicy()

	// Tax applies to the subtotal before shipping
	totals := policy.Totals(decimal.RequireFromString("99.99"))
	expected := decimal.RequireFromString("99.99").Mul(decimal.RequireFromString("0.08"))
	assert.True(t, totals.Tax.Equal(expected), "tax %s, expected %s", totals.Tax, expected)
}

func TestReferenceCartScenario(t *testing.T) {
	// {OrchidA: 2 @ $10, OrchidB: 1 @ $20}
	policy := DefaultPolicy()
	subtotal := decimal.NewFromInt(40)

	totals := policy.Totals(subtotal).Round()

	assert.Equal(t, "40.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "9.99", totals.Shipping.StringFixed(2))
	assert.Equal(t, "3.20", totals.Tax.StringFixed(2))
	assert.Equal(t, "53.19", totals.Total.StringFixed(2))
}

func TestRoundingOnlyAtPresentation(t *testing.T) {
	policy := DefaultPolicy()

	// 33.33 * 0.08 = 2.6664, which must survive unrounded in the total
	totals := policy.Totals(decimal.RequireFromString("33.33"))
	assert.Equal(t, "2.6664", totals.Tax.String())
	assert.Equal(t, "45.9864", totals.Total.String())

	rounded := totals.Round()
	assert.Equal(t, "2.67", rounded.Tax.StringFixed(2))
	assert.Equal(t, "45.99", rounded.Total.StringFixed(2))
}

func TestPolicyFromConfig(t *testing.T) {
	policy, err := PolicyFromConfig(config.CheckoutConfig{
		FreeShippingThreshold: "150",
		FlatShippingCost:      "4.99",
		TaxRate:               "0.1",
	})
	require.NoError(t, err)

	totals := policy.Totals(decimal.NewFromInt(100))
	assert.Equal(t, "4.99", totals.Shipping.StringFixed(2))
	assert.Equal(t, "10.00", totals.Tax.StringFixed(2))

	_, err = PolicyFromConfig(config.CheckoutConfig{
		FreeShippingThreshold: "not-a-number",
		FlatShippingCost:      "4.99",
		TaxRate:               "0.1",
	})
	assert.Error(t, err)
}
