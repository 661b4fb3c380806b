package distribution

import (
	"math"

	"github.com/KaramelBytes/feedcheck-cli/internal/format"
)

// Labeler names the buckets of a distribution.
type Labeler interface {
	Zero() string
	Band(lo, hi float64) string
	Overflow(ceiling float64) string
}

// WidthPolicy derives granularity, ceiling and band width from the 90th percentile.
type WidthPolicy func(p90 float64) Scale

// Config parameterizes an Analyzer.
type Config struct {
	// IsZero routes a value to bucket 0.
	IsZero func(v float64) bool
	Labels Labeler
	Width  WidthPolicy
}

// AmountConfig is used for money columns (cost, shipping): exact zeros go to bucket 0 and
// bands are sized by AdaptiveWidth.
func AmountConfig() Config {
	return Config{
		IsZero: func(v float64) bool { return v == 0 },
		Labels: AmountLabels{},
		Width:  AdaptiveWidth,
	}
}

// MarginConfig is the margin special case: zero and negative margins go to bucket 0 and
// bands are a fixed 5 percentage points wide. It is not a generalization of AmountConfig.
func MarginConfig() Config {
	return Config{
		IsZero: func(v float64) bool { return v <= 0 },
		Labels: MarginLabels{},
		Width:  FixedWidth(5),
	}
}

// Granularity picks the rounding unit for a 90th percentile value.
func Granularity(p90 float64) float64 {
	switch {
	case p90 > 1000:
		return 1000
	case p90 > 100:
		return 100
	default:
		return 10
	}
}

// AdaptiveWidth rounds p90 up to its granularity and splits the result into eight bands,
// rounding the band width up to the same granularity.
func AdaptiveWidth(p90 float64) Scale {
	g := Granularity(p90)
	ceiling := math.Ceil(p90/g) * g
	width := math.Ceil((ceiling/bands)/g) * g
	return Scale{Granularity: g, Ceiling: ceiling, Width: width}
}

// FixedWidth uses a constant band width; the ceiling is p90 rounded up to a multiple of it.
func FixedWidth(width float64) WidthPolicy {
	return func(p90 float64) Scale {
		return Scale{Granularity: width, Ceiling: math.Ceil(p90/width) * width, Width: width}
	}
}

// AmountLabels renders "0", "1-200", ">1,000".
type AmountLabels struct{}

func (AmountLabels) Zero() string { return "0" }

func (AmountLabels) Band(lo, hi float64) string {
	return format.Number(lo) + "-" + format.Number(hi)
}

func (AmountLabels) Overflow(ceiling float64) string { return ">" + format.Number(ceiling) }

// MarginLabels renders "≤0%", "1%-5%", ">45%".
type MarginLabels struct{}

func (MarginLabels) Zero() string { return "≤0%" }

func (MarginLabels) Band(lo, hi float64) string {
	return format.Number(lo) + "%-" + format.Number(hi) + "%"
}

func (MarginLabels) Overflow(ceiling float64) string { return ">" + format.Number(ceiling) + "%" }
