// Package margin derives percentage margins from sales price, cost price and shipping cost.
package margin

import (
	"fmt"
	"math"
	"sort"
)

// Policy decides the margin of an item that has no positive sales price.
// Callers pick one explicitly; the two policies disagree only on that edge case.
type Policy int

const (
	// DistributionPolicy reports 0 for items without a sales price, so they land in the
	// "≤0%" bucket of a margin histogram.
	DistributionPolicy Policy = iota
	// FlaggingPolicy reports -100 so items without a sales price surface as negative-margin
	// products.
	FlaggingPolicy
)

func (p Policy) String() string {
	switch p {
	case DistributionPolicy:
		return "distribution"
	case FlaggingPolicy:
		return "flagging"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Derive returns ((sales - cost - shipping) / sales) * 100 when sales > 0, otherwise the
// policy's fallback. NaN inputs propagate (NaN sales falls back, NaN cost yields NaN).
func Derive(p Policy, sales, cost, shipping float64) float64 {
	if sales > 0 {
		return ((sales - cost - shipping) / sales) * 100
	}
	if p == FlaggingPolicy {
		return -100
	}
	return 0
}

// Product is one feed item reduced to the fields margins need.
type Product struct {
	SKU          string  `json:"sku"`
	Title        string  `json:"title"`
	SalesPrice   float64 `json:"salesPrice"`
	CostPrice    float64 `json:"costPrice"`
	ShippingCost float64 `json:"shippingCost"`
}

// Flagged is a product with its flagging-policy margin.
type Flagged struct {
	Product
	Margin float64 `json:"margin"`
}

// Margins derives one margin per product under p. Missing shipping (NaN) counts as 0.
func Margins(p Policy, products []Product) []float64 {
	out := make([]float64, len(products))
	for i, pr := range products {
		out[i] = Derive(p, pr.SalesPrice, pr.CostPrice, orZero(pr.ShippingCost))
	}
	return out
}

// Negative returns the products whose FlaggingPolicy margin is finite and below zero, lowest
// margin first. Ties keep feed order. limit <= 0 returns all of them.
func Negative(products []Product, limit int) []Flagged {
	var out []Flagged
	for _, pr := range products {
		m := Derive(FlaggingPolicy, pr.SalesPrice, pr.CostPrice, orZero(pr.ShippingCost))
		if m < 0 && !math.IsInf(m, 0) {
			out = append(out, Flagged{Product: pr, Margin: m})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Margin < out[j].Margin })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func orZero(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return x
}
