package margin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveDistributionPolicyZeroSales(t *testing.T) {
	assert.Equal(t, 0.0, Derive(DistributionPolicy, 0, 5, 1))
	assert.Equal(t, 0.0, Derive(DistributionPolicy, -2, 5, 1))
}

func TestDeriveFlaggingPolicyZeroSales(t *testing.T) {
	assert.Equal(t, -100.0, Derive(FlaggingPolicy, 0, 5, 1))
	assert.Equal(t, -100.0, Derive(FlaggingPolicy, math.NaN(), 5, 1))
}

func TestDerivePositiveSalesIgnoresPolicy(t *testing.T) {
	for _, p := range []Policy{DistributionPolicy, FlaggingPolicy} {
		assert.InDelta(t, 40.0, Derive(p, 100, 50, 10), 1e-9, p.String())
		assert.InDelta(t, -20.0, Derive(p, 50, 55, 5), 1e-9, p.String())
	}
	assert.True(t, math.IsNaN(Derive(DistributionPolicy, 100, math.NaN(), 0)))
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "distribution", DistributionPolicy.String())
	assert.Equal(t, "flagging", FlaggingPolicy.String())
	assert.Equal(t, "policy(7)", Policy(7).String())
}

func TestMarginsTreatsMissingShippingAsZero(t *testing.T) {
	got := Margins(DistributionPolicy, []Product{
		{SalesPrice: 100, CostPrice: 60, ShippingCost: math.NaN()},
		{SalesPrice: 0, CostPrice: 5, ShippingCost: 1},
	})
	assert.Equal(t, []float64{40, 0}, got)
}

func TestNegativeSortedLowestFirst(t *testing.T) {
	products := []Product{
		{SKU: "ok", SalesPrice: 100, CostPrice: 50},
		{SKU: "free", SalesPrice: 0, CostPrice: 5},
		{SKU: "thin", SalesPrice: 100, CostPrice: 95, ShippingCost: 10},
		{SKU: "deep", SalesPrice: 10, CostPrice: 25},
		{SKU: "nocost", SalesPrice: 10, CostPrice: math.NaN()},
	}
	got := Negative(products, 0)
	require.Len(t, got, 3)
	assert.Equal(t, "deep", got[0].SKU)
	assert.InDelta(t, -150.0, got[0].Margin, 1e-9)
	assert.Equal(t, "free", got[1].SKU)
	assert.Equal(t, -100.0, got[1].Margin)
	assert.Equal(t, "thin", got[2].SKU)
	assert.InDelta(t, -5.0, got[2].Margin, 1e-9)

	assert.Len(t, Negative(products, 2), 2)
	assert.Empty(t, Negative(nil, 0))
}

func TestNegativeSkipsInfiniteMargins(t *testing.T) {
	products := []Product{
		{SKU: "inf", SalesPrice: 10, CostPrice: math.Inf(1)},
		{SKU: "blank", SalesPrice: math.NaN(), CostPrice: math.NaN()},
	}
	got := Negative(products, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "blank", got[0].SKU)
	assert.Equal(t, -100.0, got[0].Margin)
}
