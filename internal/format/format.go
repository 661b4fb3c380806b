// Package format renders numbers for display. Nothing here is applied implicitly;
// callers pick the helper they need.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Number groups thousands and keeps at most three fraction digits: 1234.5 -> "1,234.5".
func Number(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Sprint(x)
	}
	return printer.Sprint(number.Decimal(x, number.MaxFractionDigits(3)))
}

// Rounded rounds half away from zero, then groups thousands: 1234.6 -> "1,235".
func Rounded(x float64) string {
	return Number(math.Round(x))
}

// Money prints a dollar amount with two decimals and no grouping: 12 -> "$12.00".
func Money(x float64) string {
	return fmt.Sprintf("$%.2f", x)
}

// Percent prints x with the given number of decimals and a percent sign.
func Percent(x float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, x)
}
