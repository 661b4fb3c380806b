// Package distribution builds fixed-shape histograms over numeric feed columns.
//
// Every histogram has BucketCount buckets: index 0 holds zero (or non-positive) values,
// indices 1-8 are equal-width bands and index 9 collects values above a ceiling derived
// from the 90th percentile. Band width comes from a WidthPolicy, labels from a Labeler and
// zero routing from a predicate, so cost, shipping and margin share one implementation.
package distribution

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

const (
	// BucketCount is the fixed number of buckets in every distribution.
	BucketCount = 10
	bands       = BucketCount - 2
	overflow    = BucketCount - 1
)

// Bucket is one band of a histogram.
type Bucket struct {
	Range      string `json:"range"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// Insights summarises the valid observations.
type Insights struct {
	Max           float64 `json:"max"`
	Min           float64 `json:"min"`
	Avg           float64 `json:"avg"`
	Median        float64 `json:"median"`
	StdDev        float64 `json:"stdDev"`
	HighestBucket Bucket  `json:"highestBucket"`
}

// Scale describes how the bands were sized for one run.
type Scale struct {
	P90         float64 `json:"p90"`
	Granularity float64 `json:"granularity"`
	Ceiling     float64 `json:"ceiling"`
	Width       float64 `json:"width"`
}

// Distribution is the result of one Analyze call.
type Distribution struct {
	Buckets      []Bucket `json:"buckets"`
	Insights     Insights `json:"insights"`
	Scale        Scale    `json:"scale"`
	Observations int      `json:"observations"`
	Dropped      int      `json:"dropped"` // NaN or infinite inputs
}

// Analyzer turns a numeric column into a Distribution. It holds no state between calls.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer creates an analyzer. Zero-valued Config fields fall back to AmountConfig.
func NewAnalyzer(cfg Config) *Analyzer {
	def := AmountConfig()
	if cfg.IsZero == nil {
		cfg.IsZero = def.IsZero
	}
	if cfg.Labels == nil {
		cfg.Labels = def.Labels
	}
	if cfg.Width == nil {
		cfg.Width = def.Width
	}
	return &Analyzer{cfg: cfg}
}

// Analyze buckets values. NaN marks a missing value; NaN and ±Inf are dropped.
func (a *Analyzer) Analyze(values []float64) Distribution {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		valid = append(valid, v)
	}
	d := Distribution{Observations: len(valid), Dropped: len(values) - len(valid)}
	if len(valid) == 0 {
		d.Buckets = make([]Bucket, BucketCount)
		for i := range d.Buckets {
			d.Buckets[i].Range = a.cfg.Labels.Zero()
		}
		d.Insights.HighestBucket = Bucket{Range: "N/A"}
		return d
	}

	lo, hi, sum := valid[0], valid[0], 0.0
	for _, v := range valid {
		if v > hi {
			hi = v
		}
		if v < lo {
			lo = v
		}
		sum += v
	}
	n := len(valid)

	sorted := append([]float64(nil), valid...)
	sort.Float64s(sorted)
	median, err := stats.Median(sorted)
	if err != nil {
		median = 0
	}
	p90 := sorted[int(math.Floor(0.9*float64(n)))]

	sc := a.cfg.Width(p90)
	sc.P90 = p90
	d.Scale = sc

	buckets := make([]Bucket, BucketCount)
	buckets[0].Range = a.cfg.Labels.Zero()
	for i := 1; i <= bands; i++ {
		buckets[i].Range = a.cfg.Labels.Band(float64(i-1)*sc.Width+1, float64(i)*sc.Width)
	}
	buckets[overflow].Range = a.cfg.Labels.Overflow(sc.Ceiling)

	for _, v := range valid {
		buckets[a.index(v, sc)].Count++
	}
	highest := 0
	for i := range buckets {
		buckets[i].Percentage = int(math.Round(float64(buckets[i].Count) * 100 / float64(n)))
		if buckets[i].Count > buckets[highest].Count {
			highest = i
		}
	}
	d.Buckets = buckets

	d.Insights = Insights{
		Max:           hi,
		Min:           lo,
		Avg:           sum / float64(n),
		Median:        median,
		HighestBucket: buckets[highest],
	}
	if n > 1 {
		d.Insights.StdDev = stat.StdDev(valid, nil)
	}
	return d
}

// index routes one value with min(floor(v/Width)+1, 8). A value equal to k*Width lands in
// bucket k+1 although that band's label starts at k*Width+1.
// Negative values that miss the zero predicate (negative costs) collapse into bucket 0.
func (a *Analyzer) index(v float64, sc Scale) int {
	if a.cfg.IsZero(v) {
		return 0
	}
	if v > sc.Ceiling {
		return overflow
	}
	if sc.Width <= 0 {
		return 0
	}
	i := int(math.Floor(v/sc.Width)) + 1
	if i > bands {
		i = bands
	}
	if i < 0 {
		i = 0
	}
	return i
}
