package report

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/KaramelBytes/feedcheck-cli/internal/format"
	"github.com/KaramelBytes/feedcheck-cli/internal/schema"
	"github.com/KaramelBytes/feedcheck-cli/internal/utils"
)

// Markdown renders the report as sectioned plain markdown.
func (r *FeedReport) Markdown() string {
	var b strings.Builder
	b.WriteString("[FEED SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Total > r.Rows {
		b.WriteString(fmt.Sprintf("Rows: %s (processed %s)\n", format.Number(float64(r.Total)), format.Number(float64(r.Rows))))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %s\n", format.Number(float64(r.Rows))))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Columns)))
	b.WriteString(fmt.Sprintf("Catalog: %s\n", r.CatalogVersion))
	b.WriteString(fmt.Sprintf("Report: %s (%s)\n\n", r.ID, r.GeneratedAt.Format("2006-01-02 15:04 MST")))

	r.writeValidation(&b)

	for _, s := range r.Distributions {
		writeSection(&b, s)
	}

	if r.hasMargins() {
		b.WriteString("[NEGATIVE MARGINS]\n")
		if r.NegativeCount == 0 {
			b.WriteString("No products with a negative margin.\n\n")
		} else {
			if len(r.NegativeMargins) < r.NegativeCount {
				b.WriteString(fmt.Sprintf("Products: %d (showing lowest %d)\n", r.NegativeCount, len(r.NegativeMargins)))
			} else {
				b.WriteString(fmt.Sprintf("Products: %d\n", r.NegativeCount))
			}
			b.WriteString("\n| SKU | Title | Price | COGS | Shipping Cost | Margin % |\n")
			b.WriteString("| --- | --- | ---: | ---: | ---: | ---: |\n")
			for _, p := range r.NegativeMargins {
				b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
					safeVal(p.SKU), safeVal(p.Title), format.Money(p.SalesPrice), format.Money(p.CostPrice),
					format.Money(p.ShippingCost), format.Percent(p.Margin, 1)))
			}
			b.WriteString("\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (r *FeedReport) hasMargins() bool {
	for _, s := range r.Distributions {
		if s.Field == "margin" {
			return true
		}
	}
	return false
}

func (r *FeedReport) writeValidation(b *strings.Builder) {
	v := r.Validation
	if v == nil {
		return
	}
	b.WriteString("[SCHEMA VALIDATION]\n")
	if v.IsValid {
		b.WriteString("Status: ✓ valid\n")
	} else {
		b.WriteString("Status: ✗ invalid\n")
	}
	b.WriteString(fmt.Sprintf("Missing required: %s\n", list(v.MissingRequired)))
	b.WriteString(fmt.Sprintf("Missing preferred: %s\n", list(v.MissingPreferred)))
	b.WriteString(fmt.Sprintf("Unmapped columns: %s\n\n", list(v.UnmappedColumns)))

	b.WriteString("[FIELD SPECIFICATIONS]\n")
	WriteFields(b, v)
	b.WriteString("\n")
}

// WriteFields lists per-field completeness, required fields first.
func WriteFields(b *strings.Builder, v *schema.Report) {
	fields := append([]schema.FieldReport(nil), v.Fields...)
	sortByNecessity(fields)
	for _, f := range fields {
		b.WriteString(fmt.Sprintf("- %s (%s, %s): %d%% %s", f.Name, f.Necessity, f.Type, f.Completeness, f.Band))
		if f.Missing > 0 {
			b.WriteString(fmt.Sprintf(", %d missing", f.Missing))
		}
		if f.Invalid > 0 {
			b.WriteString(fmt.Sprintf(", %d invalid", f.Invalid))
		}
		if len(f.Columns) > 0 && (len(f.Columns) > 1 || f.Columns[0] != f.Name) {
			b.WriteString(" via " + strings.Join(f.Columns, ", "))
		}
		b.WriteString("\n")
	}
}

func writeSection(b *strings.Builder, s Section) {
	d := s.Distribution
	b.WriteString(fmt.Sprintf("[DISTRIBUTION: %s]\n", s.Title))
	b.WriteString(fmt.Sprintf("Observations: %s", format.Number(float64(d.Observations))))
	if d.Dropped > 0 {
		b.WriteString(fmt.Sprintf(" (%s without a value)", format.Number(float64(d.Dropped))))
	}
	b.WriteString("\n")
	if d.Observations > 0 {
		b.WriteString(fmt.Sprintf("Scale: p90 %s, bucket width %s, ceiling %s\n",
			format.Number(d.Scale.P90), format.Number(d.Scale.Width), format.Number(d.Scale.Ceiling)))
	}
	b.WriteString("\n| Range | Count | Share |\n")
	b.WriteString("| --- | ---: | ---: |\n")
	for _, bk := range d.Buckets {
		b.WriteString(fmt.Sprintf("| %s | %s | %d%% |\n", bk.Range, format.Number(float64(bk.Count)), bk.Percentage))
	}
	in := d.Insights
	b.WriteString(fmt.Sprintf("\nMin %s, Max %s, Avg %s, Median %s, Std %s\n",
		s.Amount(in.Min), s.Amount(in.Max), s.Amount(in.Avg), s.Amount(in.Median), s.Amount(in.StdDev)))
	b.WriteString(fmt.Sprintf("Insight: %s\n\n", s.Insight))
}

func sortByNecessity(fields []schema.FieldReport) {
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Necessity.Rank() < fields[j].Necessity.Rank()
	})
}

func list(xs []string) string {
	if len(xs) == 0 {
		return "none"
	}
	return strings.Join(xs, ", ")
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// JSON renders the report as indented JSON.
func (r *FeedReport) JSON() ([]byte, error) {
	return utils.PrettyJSON(r)
}

var sectionLine = regexp.MustCompile(`(?m)^\[(.+)\]$`)

// HTML renders the markdown report as a standalone HTML page.
func (r *FeedReport) HTML() []byte {
	md := sectionLine.ReplaceAllString(r.Markdown(), "## $1")
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak)
	doc := p.Parse([]byte(md))
	title := "Feed report"
	if r.Name != "" {
		title = "Feed report: " + r.Name
	}
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(doc, renderer)
}

// Render dispatches on a format name: markdown, json or html.
func (r *FeedReport) Render(formatName string) ([]byte, error) {
	switch formatName {
	case "", "markdown", "md":
		return []byte(r.Markdown()), nil
	case "json":
		return r.JSON()
	case "html":
		return r.HTML(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use markdown, json or html)", formatName)
	}
}

// Extension returns the file extension used for a format name.
func Extension(formatName string) string {
	switch formatName {
	case "json":
		return "json"
	case "html":
		return "html"
	default:
		return "md"
	}
}
