// Package viewmodel derives display data from the portfolio and snapshot.
// Everything here is pure and deterministic.
package viewmodel

import "github.com/bobmcallan/folio-dashboard/internal/models"

// Palette colours allocation slices in portfolio order, wrapping around.
var Palette = []string{
	"#3B82F6",
	"#8B5CF6",
	"#10B981",
	"#F59E0B",
	"#EF4444",
	"#06B6D4",
	"#84CC16",
	"#F97316",
}

// AllocationEntry is one holding's share of the portfolio.
type AllocationEntry struct {
	Ticker     string  `json:"ticker"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// TotalValue sums the amounts invested.
func TotalValue(holdings []models.Holding) float64 {
	var total float64
	for _, h := range holdings {
		total += h.Amount
	}
	return total
}

// Allocation returns each holding's percentage of the total, in portfolio order.
// Percentages are 0 when the total is 0.
func Allocation(holdings []models.Holding) []AllocationEntry {
	total := TotalValue(holdings)
	out := make([]AllocationEntry, 0, len(holdings))
	for i, h := range holdings {
		var pct float64
		if total > 0 {
			pct = h.Amount / total * 100
		}
		out = append(out, AllocationEntry{
			Ticker:     h.Ticker,
			Amount:     h.Amount,
			Percentage: pct,
			Color:      ColorAt(i),
		})
	}
	return out
}

// ColorAt returns the palette colour for position i.
func ColorAt(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}
