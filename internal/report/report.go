// Package report assembles validation, distributions and negative-margin listings for one feed.
package report

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/feedcheck-cli/internal/distribution"
	"github.com/KaramelBytes/feedcheck-cli/internal/feed"
	"github.com/KaramelBytes/feedcheck-cli/internal/format"
	"github.com/KaramelBytes/feedcheck-cli/internal/logging"
	"github.com/KaramelBytes/feedcheck-cli/internal/margin"
	"github.com/KaramelBytes/feedcheck-cli/internal/schema"
)

// Options controls report building.
type Options struct {
	Catalog   *schema.Catalog // nil means schema.DefaultCatalog
	AliasMode schema.AliasMode
	Numbers   feed.NumberFormat
	// NegativeLimit caps the listed negative-margin products; 0 lists all.
	NegativeLimit int
	Now           func() time.Time
	Log           *logging.Logger
}

// Unit tells renderers how to display a section's amounts.
type Unit string

const (
	Money   Unit = "money"
	Percent Unit = "percent"
)

// Section is one distribution with its headline.
type Section struct {
	Title        string                    `json:"title"`
	Field        string                    `json:"field"`
	Columns      []string                  `json:"columns"`
	Unit         Unit                      `json:"unit"`
	Distribution distribution.Distribution `json:"distribution"`
	Insight      string                    `json:"insight"`
}

// Amount formats x in the section's unit.
func (s Section) Amount(x float64) string {
	if s.Unit == Percent {
		return format.Percent(x, 1)
	}
	return "$" + format.Rounded(x)
}

// FeedReport is the complete analysis of one feed.
type FeedReport struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	GeneratedAt     time.Time        `json:"generatedAt"`
	Rows            int              `json:"rows"`
	Total           int              `json:"total"`
	Columns         []string         `json:"columns"`
	CatalogVersion  string           `json:"catalogVersion"`
	Validation      *schema.Report   `json:"validation"`
	Distributions   []Section        `json:"distributions"`
	NegativeCount   int              `json:"negativeMarginCount"`
	NegativeMargins []margin.Flagged `json:"negativeMargins"`
	Warnings        []string         `json:"warnings"`
}

// Build analyzes a parsed feed.
func Build(t *feed.Table, opt Options) *FeedReport {
	cat := opt.Catalog
	if cat == nil {
		cat = schema.DefaultCatalog()
	}
	now := time.Now
	if opt.Now != nil {
		now = opt.Now
	}
	log := opt.Log
	if log == nil {
		log = logging.Default
	}

	v := schema.NewValidator(cat, schema.WithAliasMode(opt.AliasMode), schema.WithNumberFormat(opt.Numbers))
	val := v.ValidateTable(t)
	cols := resolved(val)

	r := &FeedReport{
		ID:             uuid.NewString(),
		Name:           t.Name,
		GeneratedAt:    now().UTC(),
		Rows:           len(t.Rows),
		Total:          t.Total,
		Columns:        append([]string{}, t.Headers...),
		CatalogVersion: cat.Version,
		Validation:     val,
		Warnings:       append([]string{}, t.Warnings...),
	}
	if r.Total < r.Rows {
		r.Total = r.Rows
	}
	log.Debug("report %s: %d rows, %d columns, valid=%t", r.Name, r.Rows, len(r.Columns), val.IsValid)

	amounts := distribution.NewAnalyzer(distribution.AmountConfig())
	if c := cols["shippingCost"]; len(c) > 0 {
		d := amounts.Analyze(feed.Column(t.Rows, opt.Numbers, c...))
		r.Distributions = append(r.Distributions, Section{
			Title: "Shipping Cost", Field: "shippingCost", Columns: c, Unit: Money, Distribution: d,
			Insight: insight(d, "have shipping costs between"),
		})
	}
	if c := cols["costPrice"]; len(c) > 0 {
		d := amounts.Analyze(feed.Column(t.Rows, opt.Numbers, c...))
		r.Distributions = append(r.Distributions, Section{
			Title: "COGS", Field: "costPrice", Columns: c, Unit: Money, Distribution: d,
			Insight: insight(d, "have a cost price between"),
		})
	}

	products := Products(t.Rows, cols, opt.Numbers)
	if len(cols["salesPrice"]) > 0 && len(cols["costPrice"]) > 0 {
		d := distribution.NewAnalyzer(distribution.MarginConfig()).
			Analyze(margin.Margins(margin.DistributionPolicy, products))
		r.Distributions = append(r.Distributions, Section{
			Title: "Margin (%)", Field: "margin", Columns: append(append([]string{}, cols["salesPrice"]...), cols["costPrice"]...),
			Unit: Percent, Distribution: d,
			Insight: insight(d, "have a margin of"),
		})
		all := margin.Negative(products, 0)
		r.NegativeCount = len(all)
		if opt.NegativeLimit > 0 && len(all) > opt.NegativeLimit {
			all = all[:opt.NegativeLimit]
		}
		for i := range all {
			all[i].SalesPrice = finite(all[i].SalesPrice)
			all[i].CostPrice = finite(all[i].CostPrice)
			all[i].ShippingCost = finite(all[i].ShippingCost)
		}
		r.NegativeMargins = all
	} else {
		r.Warnings = append(r.Warnings, "margins skipped: salesPrice and costPrice columns are both required")
	}
	if r.NegativeMargins == nil {
		r.NegativeMargins = []margin.Flagged{}
	}
	for _, s := range r.Distributions {
		if s.Distribution.Dropped > 0 {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %d rows without a usable value were left out", s.Title, s.Distribution.Dropped))
		}
	}
	return r
}

// Products reduces rows to the fields margin derivation needs, using the resolved column
// lists per catalog field. Missing numbers are NaN; missing text is "".
func Products(rows []feed.Row, cols map[string][]string, nf feed.NumberFormat) []margin.Product {
	sales := feed.Column(rows, nf, cols["salesPrice"]...)
	cost := feed.Column(rows, nf, cols["costPrice"]...)
	ship := feed.Column(rows, nf, cols["shippingCost"]...)
	out := make([]margin.Product, len(rows))
	for i, row := range rows {
		out[i] = margin.Product{
			SKU:          text(row, cols["sku"]),
			Title:        text(row, cols["title"]),
			SalesPrice:   sales[i],
			CostPrice:    cost[i],
			ShippingCost: ship[i],
		}
	}
	return out
}

func resolved(val *schema.Report) map[string][]string {
	m := make(map[string][]string, len(val.Fields))
	for _, f := range val.Fields {
		m[f.Name] = f.Columns
	}
	return m
}

func text(row feed.Row, columns []string) string {
	for _, c := range columns {
		if row.Has(c) {
			return fmt.Sprint(row[c])
		}
	}
	return ""
}

func insight(d distribution.Distribution, phrase string) string {
	if d.Observations == 0 {
		return "No usable values."
	}
	hb := d.Insights.HighestBucket
	return fmt.Sprintf("%d%% of products (%s items) %s %s",
		hb.Percentage, format.Number(float64(hb.Count)), phrase, hb.Range)
}

// finite returns x, or 0 for NaN and infinities.
func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
