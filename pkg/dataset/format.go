package dataset

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatNumber formats f with thousands grouping and up to three decimals,
// e.g. 1234.5 → "1,234.5".
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "NaN"
	}
	return printer.Sprint(number.Decimal(f, number.MaxFractionDigits(3)))
}

// FormatInteger rounds f and formats it with thousands grouping.
func FormatInteger(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "NaN"
	}
	return printer.Sprint(number.Decimal(math.Round(f), number.MaxFractionDigits(0)))
}
