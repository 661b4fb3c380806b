package distribution

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counts(d Distribution) []int {
	out := make([]int, len(d.Buckets))
	for i, b := range d.Buckets {
		out[i] = b.Count
	}
	return out
}

func TestAnalyzeRegressionBoundaryCeiling(t *testing.T) {
	// p90 == 1000 is not > 1000, so granularity is 100 and 1000 is not overflow.
	d := NewAnalyzer(AmountConfig()).Analyze([]float64{10, 20, 30, 100, 1000})

	assert.Equal(t, Scale{P90: 1000, Granularity: 100, Ceiling: 1000, Width: 200}, d.Scale)
	assert.Equal(t, []int{0, 4, 0, 0, 0, 1, 0, 0, 0, 0}, counts(d))
	assert.Equal(t, 80, d.Buckets[1].Percentage)
	assert.Equal(t, 20, d.Buckets[6].Percentage)

	assert.Equal(t, "0", d.Buckets[0].Range)
	assert.Equal(t, "1-200", d.Buckets[1].Range)
	assert.Equal(t, "201-400", d.Buckets[2].Range)
	assert.Equal(t, "1,001-1,200", d.Buckets[6].Range)
	assert.Equal(t, "1,401-1,600", d.Buckets[8].Range)
	assert.Equal(t, ">1,000", d.Buckets[9].Range)

	ins := d.Insights
	assert.Equal(t, 10.0, ins.Min)
	assert.Equal(t, 1000.0, ins.Max)
	assert.Equal(t, 232.0, ins.Avg)
	assert.Equal(t, 30.0, ins.Median)
	assert.InDelta(t, math.Sqrt(185570), ins.StdDev, 1e-9)
	assert.Equal(t, Bucket{Range: "1-200", Count: 4, Percentage: 80}, ins.HighestBucket)
	assert.Equal(t, 5, d.Observations)
	assert.Equal(t, 0, d.Dropped)
}

func TestAnalyzeWidthMultipleGoesToNextBucket(t *testing.T) {
	d := NewAnalyzer(AmountConfig()).Analyze([]float64{200, 1000, 10, 20, 30})
	require.Equal(t, 200.0, d.Scale.Width)
	assert.Equal(t, 1, d.Buckets[2].Count, "floor(200/200)+1 == 2")
	assert.Equal(t, 3, d.Buckets[1].Count)
}

func TestAnalyzeEmpty(t *testing.T) {
	for _, in := range [][]float64{nil, {}, {math.NaN(), math.Inf(1), math.Inf(-1)}} {
		d := NewAnalyzer(AmountConfig()).Analyze(in)
		require.Len(t, d.Buckets, BucketCount)
		for _, b := range d.Buckets {
			assert.Equal(t, 0, b.Count)
			assert.Equal(t, 0, b.Percentage)
		}
		assert.Equal(t, "N/A", d.Insights.HighestBucket.Range)
		assert.Equal(t, Insights{HighestBucket: Bucket{Range: "N/A"}}, d.Insights)
		assert.Equal(t, len(in), d.Dropped)
	}
}

func TestAnalyzeAllZeros(t *testing.T) {
	d := NewAnalyzer(AmountConfig()).Analyze([]float64{0, 0, 0})
	assert.Equal(t, []int{3, 0, 0, 0, 0, 0, 0, 0, 0, 0}, counts(d))
	assert.Equal(t, 100, d.Buckets[0].Percentage)
	assert.Equal(t, "0", d.Insights.HighestBucket.Range)
	assert.Equal(t, 0.0, d.Insights.StdDev)
}

func TestAnalyzeNegativeAmountsCollapseIntoZeroBucket(t *testing.T) {
	d := NewAnalyzer(AmountConfig()).Analyze([]float64{-500, 50})
	assert.Equal(t, Scale{P90: 50, Granularity: 10, Ceiling: 50, Width: 10}, d.Scale)
	assert.Equal(t, 1, d.Buckets[0].Count)
	assert.Equal(t, 1, d.Buckets[6].Count)
}

func TestAnalyzeOverflowAndCap(t *testing.T) {
	// p90 index floor(0.9*10) = 9 picks the maximum, so nothing overflows here;
	// 79 caps at band 8.
	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8, 79, 80}
	d := NewAnalyzer(AmountConfig()).Analyze(vals)
	assert.Equal(t, Scale{P90: 80, Granularity: 10, Ceiling: 80, Width: 10}, d.Scale)
	assert.Equal(t, 0, d.Buckets[9].Count)
	assert.Equal(t, 2, d.Buckets[8].Count)

	// with 20 values the p90 element is below the maximum, so the top value overflows.
	vals = append(vals, 1, 1, 1, 1, 1, 1, 1, 1, 1, 500)
	d = NewAnalyzer(AmountConfig()).Analyze(vals)
	assert.Equal(t, 80.0, d.Scale.P90)
	assert.Equal(t, 1, d.Buckets[9].Count)
	assert.Equal(t, ">80", d.Buckets[9].Range)
}

// Margins use fixed 5-point bands with non-positive values in bucket 0 and the ceiling
// rounded up to a multiple of 5.
func TestAnalyzeMarginSpecialCase(t *testing.T) {
	d := NewAnalyzer(MarginConfig()).Analyze([]float64{-10, 0, 3, 5, 12, 47, 80})

	assert.Equal(t, Scale{P90: 80, Granularity: 5, Ceiling: 80, Width: 5}, d.Scale)
	assert.Equal(t, []int{2, 1, 1, 1, 0, 0, 0, 0, 2, 0}, counts(d))
	assert.Equal(t, "≤0%", d.Buckets[0].Range)
	assert.Equal(t, "1%-5%", d.Buckets[1].Range)
	assert.Equal(t, "6%-10%", d.Buckets[2].Range)
	assert.Equal(t, "36%-40%", d.Buckets[8].Range)
	assert.Equal(t, ">80%", d.Buckets[9].Range)
	assert.Equal(t, "≤0%", d.Insights.HighestBucket.Range, "first max wins on ties")
	assert.Equal(t, 29, d.Buckets[0].Percentage)
	assert.Equal(t, 14, d.Buckets[1].Percentage)
}

func TestAnalyzeProperties(t *testing.T) {
	inputs := [][]float64{
		{0, 0, 0},
		{10, 20, 30, 100, 1000},
		{1, math.NaN(), 2, math.Inf(1), 3},
		{0.5, 1.5, 2.5, 3333, 12, 7, 7, 7, 99999},
		{-3, -2, -1, 0, 1, 2, 3},
		{42},
	}
	for _, cfg := range []Config{AmountConfig(), MarginConfig()} {
		a := NewAnalyzer(cfg)
		for _, in := range inputs {
			d := a.Analyze(in)
			valid := 0
			for _, v := range in {
				if !math.IsNaN(v) && !math.IsInf(v, 0) {
					valid++
				}
			}
			sumCount, sumPct := 0, 0
			for _, b := range d.Buckets {
				sumCount += b.Count
				sumPct += b.Percentage
			}
			assert.Len(t, d.Buckets, BucketCount)
			assert.Equal(t, valid, sumCount, "counts for %v", in)
			assert.GreaterOrEqual(t, sumPct, 99, "percent sum for %v", in)
			assert.LessOrEqual(t, sumPct, 101, "percent sum for %v", in)
			assert.Equal(t, d, a.Analyze(in), "idempotent for %v", in)
		}
	}
}

func TestGranularityAndWidth(t *testing.T) {
	assert.Equal(t, 1000.0, Granularity(1000.5))
	assert.Equal(t, 100.0, Granularity(1000))
	assert.Equal(t, 100.0, Granularity(101))
	assert.Equal(t, 10.0, Granularity(100))
	assert.Equal(t, Scale{Granularity: 1000, Ceiling: 3000, Width: 1000}, AdaptiveWidth(2500))
	assert.Equal(t, Scale{Granularity: 10, Ceiling: 40, Width: 10}, AdaptiveWidth(33))
	assert.Equal(t, Scale{Granularity: 5, Ceiling: 45, Width: 5}, FixedWidth(5)(41.2))
}

func TestNewAnalyzerDefaults(t *testing.T) {
	d := NewAnalyzer(Config{}).Analyze([]float64{0, 5})
	assert.Equal(t, "0", d.Buckets[0].Range)
	assert.Equal(t, 1, d.Buckets[0].Count)
}
