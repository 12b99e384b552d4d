package common

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DisplayCurrency is the ISO code every amount on the dashboard is shown in.
const DisplayCurrency = money.USD

// FormatCurrency formats v as a USD amount with comma grouping and exactly two
// decimals: 1234.5 -> "$1,234.50", -500 -> "-$500.00".
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	cur := money.GetCurrency(DisplayCurrency)
	minor := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), DisplayCurrency).Display()
}

// FormatNumber formats v with grouped thousands and exactly decimals fraction
// digits, rounding half away from zero. Negative decimals are treated as 0.
func FormatNumber(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	if decimals < 0 {
		decimals = 0
	}
	s := decimal.NewFromFloat(v).StringFixed(int32(decimals))

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")

	out := groupThousands(whole)
	if frac != "" {
		out += "." + frac
	}
	// "-0.00" reads as noise
	if negative && strings.Trim(whole+frac, "0") != "" {
		out = "-" + out
	}
	return out
}

// FormatPercentage formats v as a percentage with two decimals and a leading
// "+" for non-negative values: 5.5 -> "+5.50%", -5.5 -> "-5.50%".
func FormatPercentage(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	sign := "+"
	if v < 0 {
		sign = "-"
	}
	return sign + FormatNumber(math.Abs(v), 2) + "%"
}

// FormatLargeNumber abbreviates market-cap sized values: $1.23B, $4.56M, $7.89K.
// Values under a thousand fall back to FormatCurrency.
func FormatLargeNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%s$%sB", sign, FormatNumber(abs/1e9, 2))
	case abs >= 1e6:
		return fmt.Sprintf("%s$%sM", sign, FormatNumber(abs/1e6, 2))
	case abs >= 1e3:
		return fmt.Sprintf("%s$%sK", sign, FormatNumber(abs/1e3, 2))
	default:
		return FormatCurrency(v)
	}
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}
