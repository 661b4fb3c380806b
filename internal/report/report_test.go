package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/feedcheck-cli/internal/feed"
	"github.com/KaramelBytes/feedcheck-cli/internal/schema"
)

func sampleTable() *feed.Table {
	rows := []feed.Row{
		{"sku": "A", "title": "Alpha", "salesPrice": "100", "costPrice": "50", "shippingCost": "10", "extra": "x"},
		{"sku": "B", "title": "Beta", "salesPrice": "10", "costPrice": "25", "shippingCost": "", "extra": "y"},
		{"sku": "C", "title": "Gamma", "salesPrice": "", "costPrice": "5", "shippingCost": "1", "extra": "z"},
		{"sku": "D", "title": "Delta", "salesPrice": "200", "costPrice": "100", "shippingCost": "20", "extra": "w"},
	}
	return &feed.Table{
		Name:    "feed.csv",
		Headers: []string{"sku", "title", "salesPrice", "costPrice", "shippingCost", "extra"},
		Rows:    rows,
		Total:   len(rows),
	}
}

func fixedNow() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

func sectionByField(t *testing.T, r *FeedReport, field string) Section {
	t.Helper()
	for _, s := range r.Distributions {
		if s.Field == field {
			return s
		}
	}
	t.Fatalf("no section for %s", field)
	return Section{}
}

func TestBuildSampleFeed(t *testing.T) {
	r := Build(sampleTable(), Options{Now: fixedNow})
	_, err := uuid.Parse(r.ID)
	require.NoError(t, err)
	assert.Equal(t, fixedNow(), r.GeneratedAt)
	assert.Equal(t, 4, r.Rows)
	assert.True(t, r.Validation.IsValid)
	assert.Equal(t, []string{"extra"}, r.Validation.UnmappedColumns)
	require.Len(t, r.Distributions, 3)

	ship := sectionByField(t, r, "shippingCost")
	assert.Equal(t, 3, ship.Distribution.Observations)
	assert.Equal(t, 1, ship.Distribution.Dropped)
	assert.Equal(t, 10.0, ship.Distribution.Scale.Width)
	assert.Equal(t, "33% of products (1 items) have shipping costs between 1-10", ship.Insight)

	cogs := sectionByField(t, r, "costPrice")
	assert.Equal(t, 4, cogs.Distribution.Observations)

	m := sectionByField(t, r, "margin")
	assert.Equal(t, 4, m.Distribution.Observations)
	assert.Equal(t, 2, m.Distribution.Buckets[0].Count)
	assert.Equal(t, 2, m.Distribution.Buckets[8].Count)
	assert.Equal(t, "50% of products (2 items) have a margin of ≤0%", m.Insight)

	require.Equal(t, 2, r.NegativeCount)
	require.Len(t, r.NegativeMargins, 2)
	assert.Equal(t, "B", r.NegativeMargins[0].SKU)
	assert.InDelta(t, -150.0, r.NegativeMargins[0].Margin, 1e-9)
	assert.Equal(t, "C", r.NegativeMargins[1].SKU)
	assert.Equal(t, -100.0, r.NegativeMargins[1].Margin)
	assert.Equal(t, 0.0, r.NegativeMargins[1].SalesPrice)

	assert.Contains(t, r.Warnings, "Shipping Cost: 1 rows without a usable value were left out")
}

func TestBuildNegativeLimit(t *testing.T) {
	r := Build(sampleTable(), Options{NegativeLimit: 1})
	assert.Equal(t, 2, r.NegativeCount)
	require.Len(t, r.NegativeMargins, 1)
	assert.Equal(t, "B", r.NegativeMargins[0].SKU)
	assert.Contains(t, r.Markdown(), "Products: 2 (showing lowest 1)")
}

func TestBuildResolvesAliasColumns(t *testing.T) {
	tbl := &feed.Table{
		Name:    "aliases.csv",
		Headers: []string{"productId", "price", "cost"},
		Rows: []feed.Row{
			{"productId": "X1", "price": "10,00", "cost": "12,50"},
		},
	}
	r := Build(tbl, Options{})
	assert.True(t, r.Validation.IsValid)
	require.Len(t, r.NegativeMargins, 1)
	assert.Equal(t, "X1", r.NegativeMargins[0].SKU)
	assert.InDelta(t, -25.0, r.NegativeMargins[0].Margin, 1e-9)

	canonical := Build(tbl, Options{AliasMode: schema.CanonicalOnly})
	assert.False(t, canonical.Validation.IsValid)
	assert.Empty(t, canonical.Distributions)
}

func TestBuildWithoutSalesPriceSkipsMargins(t *testing.T) {
	tbl := &feed.Table{
		Headers: []string{"sku", "costPrice"},
		Rows:    []feed.Row{{"sku": "A", "costPrice": "3"}},
	}
	r := Build(tbl, Options{})
	require.Len(t, r.Distributions, 1)
	assert.Empty(t, r.NegativeMargins)
	md := r.Markdown()
	assert.NotContains(t, md, "[NEGATIVE MARGINS]")
	assert.Contains(t, md, "margins skipped")
}

func TestBuildEmptyTable(t *testing.T) {
	r := Build(&feed.Table{Name: "empty.csv", Headers: []string{"sku", "costPrice", "salesPrice"}}, Options{})
	assert.True(t, r.Validation.IsValid)
	for _, s := range r.Distributions {
		assert.Equal(t, 0, s.Distribution.Observations)
		assert.Equal(t, "No usable values.", s.Insight)
	}
	_, err := r.JSON()
	require.NoError(t, err)
}

func TestBuildBlankPriceAndCostStillRenders(t *testing.T) {
	tbl := &feed.Table{
		Name:    "gaps.csv",
		Headers: []string{"sku", "costPrice", "salesPrice"},
		Rows: []feed.Row{
			{"sku": "A", "costPrice": "5", "salesPrice": "10"},
			{"sku": "B", "costPrice": "", "salesPrice": ""},
			{"sku": "C", "costPrice": "inf", "salesPrice": "10"},
		},
	}
	r := Build(tbl, Options{})
	require.Len(t, r.NegativeMargins, 1)
	assert.Equal(t, "B", r.NegativeMargins[0].SKU)
	assert.Equal(t, 0.0, r.NegativeMargins[0].CostPrice)
	assert.Equal(t, -100.0, r.NegativeMargins[0].Margin)

	b, err := r.JSON()
	require.NoError(t, err)
	var decoded struct {
		NegativeMargins []map[string]any `json:"negativeMargins"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded.NegativeMargins, 1)
	assert.Equal(t, 0.0, decoded.NegativeMargins[0]["costPrice"])

	md := r.Markdown()
	assert.NotContains(t, md, "NaN")
	assert.NotContains(t, md, "Inf")
	assert.Contains(t, md, "| B |  | $0.00 | $0.00 | $0.00 | -100.0% |")
}

func TestMarkdownSections(t *testing.T) {
	md := Build(sampleTable(), Options{Now: fixedNow}).Markdown()
	for _, want := range []string{
		"[FEED SUMMARY]",
		"File: feed.csv",
		"[SCHEMA VALIDATION]",
		"Status: ✓ valid",
		"Unmapped columns: extra",
		"[FIELD SPECIFICATIONS]",
		"- sku (required, string): 100% complete",
		"[DISTRIBUTION: Shipping Cost]",
		"[DISTRIBUTION: COGS]",
		"[DISTRIBUTION: Margin (%)]",
		"| ≤0% | 2 | 50% |",
		"[NEGATIVE MARGINS]",
		"| B | Beta | $10.00 | $25.00 | $0.00 | -150.0% |",
		"[NOTES]",
	} {
		assert.Contains(t, md, want)
	}
	assert.Less(t, strings.Index(md, "- costPrice"), strings.Index(md, "- brand"), "required fields listed first")
	assert.Less(t, strings.Index(md, "- brand"), strings.Index(md, "- title"), "preferred before optional")
}

func TestJSONAndHTML(t *testing.T) {
	r := Build(sampleTable(), Options{Now: fixedNow})
	b, err := r.JSON()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "feed.csv", decoded["name"])
	validation := decoded["validation"].(map[string]any)
	assert.Equal(t, true, validation["isValid"])

	html := string(r.HTML())
	assert.Contains(t, html, "<title>Feed report: feed.csv</title>")
	assert.Contains(t, html, "<h2")
	assert.Contains(t, html, "NEGATIVE MARGINS")
	assert.Contains(t, html, "<table>")
}

func TestRenderAndExtension(t *testing.T) {
	r := Build(sampleTable(), Options{})
	for _, f := range []string{"markdown", "json", "html"} {
		b, err := r.Render(f)
		require.NoError(t, err, f)
		assert.NotEmpty(t, b, f)
	}
	_, err := r.Render("pdf")
	assert.Error(t, err)
	assert.Equal(t, "md", Extension("markdown"))
	assert.Equal(t, "json", Extension("json"))
	assert.Equal(t, "html", Extension("html"))
}
