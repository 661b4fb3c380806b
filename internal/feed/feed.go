package feed

import "sort"

// Value is a raw cell value: string, float64, bool or nil.
type Value any

// Row maps a literal header name to its cell value.
type Row map[string]Value

// Table is a parsed feed: the header order as it appeared in the source plus one Row per record.
type Table struct {
	Name     string
	Headers  []string
	Rows     []Row
	Total    int // records seen, including those skipped by MaxRows
	Warnings []string
}

// IsEmpty reports whether v counts as "no value": nil, an empty string, or absent.
// Zero numbers and false are values.
func IsEmpty(v Value) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	default:
		return false
	}
}

// Has reports whether the row holds a non-empty value under column.
func (r Row) Has(column string) bool {
	v, ok := r[column]
	return ok && !IsEmpty(v)
}

// Headers returns the union of keys across rows in first-seen order.
// Map iteration is unordered, so keys new to a row are appended sorted.
func Headers(rows []Row) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		var fresh []string
		for k := range r {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			fresh = append(fresh, k)
		}
		sort.Strings(fresh)
		out = append(out, fresh...)
	}
	return out
}

