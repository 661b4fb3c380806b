// Package schema checks a feed's columns against a catalog of required, preferred and
// optional fields.
package schema

import (
	"math"
	"sort"

	"github.com/KaramelBytes/feedcheck-cli/internal/feed"
)

// AliasMode selects how catalog fields are matched to feed columns.
type AliasMode int

const (
	// ResolveAliases accepts the canonical name or any declared alias.
	ResolveAliases AliasMode = iota
	// CanonicalOnly accepts the canonical name only.
	CanonicalOnly
)

// FieldReport is the per-field outcome of a validation run.
type FieldReport struct {
	Name         string    `json:"name"`
	Necessity    Necessity `json:"necessity"`
	Type         FieldType `json:"type"`
	Columns      []string  `json:"columns"` // feed columns that resolved to this field
	Present      int       `json:"present"`
	Missing      int       `json:"missing"`
	Completeness int       `json:"completeness"`
	Band         string    `json:"band"`
	Invalid      int       `json:"invalid"` // present values failing type or bounds
}

// Report is the result of Validate. It is rebuilt on every call.
type Report struct {
	IsValid          bool           `json:"isValid"`
	MissingRequired  []string       `json:"missingRequired"`
	MissingPreferred []string       `json:"missingPreferred"`
	UnmappedColumns  []string       `json:"unmappedColumns"`
	Completeness     map[string]int `json:"completeness"`
	Fields           []FieldReport  `json:"fields"` // catalog order
	TotalRows        int            `json:"totalRows"`
}

// Validator checks rows against a catalog. It keeps no state between calls.
type Validator struct {
	catalog *Catalog
	mode    AliasMode
	numbers feed.NumberFormat
}

// Option configures a Validator.
type Option func(*Validator)

// WithAliasMode sets how fields resolve to columns.
func WithAliasMode(m AliasMode) Option { return func(v *Validator) { v.mode = m } }

// WithNumberFormat sets the separators used for type and bounds checks.
func WithNumberFormat(nf feed.NumberFormat) Option { return func(v *Validator) { v.numbers = nf } }

// NewValidator creates a validator over c; a nil catalog means DefaultCatalog.
func NewValidator(c *Catalog, opts ...Option) *Validator {
	if c == nil {
		c = DefaultCatalog()
	}
	v := &Validator{catalog: c}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Validate checks rows, taking the header set from the union of row keys.
func (v *Validator) Validate(rows []feed.Row) *Report {
	return v.validate(feed.Headers(rows), rows)
}

// ValidateTable checks a parsed table; its declared headers count even when no row has them.
func (v *Validator) ValidateTable(t *feed.Table) *Report {
	headers := append([]string(nil), t.Headers...)
	headers = append(headers, feed.Headers(t.Rows)...)
	return v.validate(headers, t.Rows)
}

func (v *Validator) validate(headers []string, rows []feed.Row) *Report {
	set := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		set[h] = struct{}{}
	}
	rep := &Report{
		MissingRequired:  []string{},
		MissingPreferred: []string{},
		UnmappedColumns:  []string{},
		Completeness:     make(map[string]int, len(v.catalog.Fields)),
		Fields:           make([]FieldReport, 0, len(v.catalog.Fields)),
		TotalRows:        len(rows),
	}
	for _, f := range v.catalog.Fields {
		fr := FieldReport{
			Name:      f.Name,
			Necessity: f.Necessity,
			Type:      f.Type,
			Columns:   v.catalog.Columns(f, set, v.mode),
		}
		if fr.Columns == nil {
			fr.Columns = []string{}
		}
		for _, r := range rows {
			val, ok := firstValue(r, fr.Columns)
			if !ok {
				fr.Missing++
				continue
			}
			fr.Present++
			if !v.acceptable(f, val) {
				fr.Invalid++
			}
		}
		fr.Completeness = percent(fr.Present, len(rows))
		fr.Band = CompletionBand(fr.Completeness)
		if fr.Missing > 0 && fr.Band == "complete" {
			// rounding reaches 100 at 199/200
			fr.Band = "high"
		}
		if fr.Missing > 0 {
			switch f.Necessity {
			case Required:
				rep.MissingRequired = append(rep.MissingRequired, f.Name)
			case Preferred:
				rep.MissingPreferred = append(rep.MissingPreferred, f.Name)
			}
		}
		rep.Completeness[f.Name] = fr.Completeness
		rep.Fields = append(rep.Fields, fr)
	}
	for h := range set {
		if !v.catalog.Known(h) {
			rep.UnmappedColumns = append(rep.UnmappedColumns, h)
		}
	}
	sort.Strings(rep.UnmappedColumns)
	rep.IsValid = len(rep.MissingRequired) == 0
	return rep
}

// acceptable checks a present value against the field's declared type and bounds.
func (v *Validator) acceptable(f FieldDefinition, val feed.Value) bool {
	if f.Type == String {
		return true
	}
	x, ok := feed.Number(val, v.numbers)
	if !ok || math.IsNaN(x) || math.IsInf(x, 0) {
		return false
	}
	if f.Type == Integer && x != math.Trunc(x) {
		return false
	}
	return f.Validation.Contains(x)
}

func firstValue(r feed.Row, columns []string) (feed.Value, bool) {
	for _, c := range columns {
		if r.Has(c) {
			return r[c], true
		}
	}
	return nil, false
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(total)))
}

// CompletionBand buckets a completeness percentage for display.
func CompletionBand(pct int) string {
	switch {
	case pct >= 100:
		return "complete"
	case pct >= 90:
		return "high"
	case pct >= 75:
		return "medium"
	case pct >= 50:
		return "low"
	default:
		return "critical"
	}
}
