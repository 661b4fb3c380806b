package feed

import (
	"math"
	"strconv"
	"strings"
)

// NumberFormat pins the separators used in numeric cells.
// A zero DecimalSeparator auto-detects per value.
type NumberFormat struct {
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, common separators (',' '.' space) are stripped
}

// Number converts a cell value to float64. Booleans, nil, unparseable strings and
// non-finite values are not numbers.
func Number(v Value, nf NumberFormat) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case float32:
		return float64(t), !math.IsNaN(float64(t)) && !math.IsInf(float64(t), 0)
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		return ParseNumber(t, nf)
	default:
		return 0, false
	}
}

// ParseNumber parses a locale-formatted number such as "1.234,50", "12.5%" or "$ 1,200.00".
func ParseNumber(s string, nf NumberFormat) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	for _, sym := range []string{"%", "$", "€", "£"} {
		raw = strings.ReplaceAll(raw, sym, "")
	}
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)

	dec := nf.DecimalSeparator
	thou := nf.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0 && strings.Count(raw, ",") > 1:
			// "1,000,000": repeated separator can only be grouping
			dec, thou = '.', ','
		case dpos >= 0 && strings.Count(raw, ".") > 1:
			dec, thou = ',', '.'
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	// hex floats and "inf"/"nan" spellings are text, not amounts
	if strings.ContainsAny(raw, "xXpP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Column projects rows onto a numeric slice. For each row the first listed column holding a
// non-empty value wins; rows with no value or an unparseable one yield NaN.
func Column(rows []Row, nf NumberFormat, columns ...string) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = math.NaN()
		for _, c := range columns {
			v, ok := r[c]
			if !ok || IsEmpty(v) {
				continue
			}
			if x, ok := Number(v, nf); ok {
				out[i] = x
			}
			break
		}
	}
	return out
}
