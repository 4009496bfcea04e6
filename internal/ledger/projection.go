package ledger

import "github.com/shopspring/decimal"

// ProjectionPoint is one month of a forward projection. Month 0 is today.
type ProjectionPoint struct {
	Month   int
	Balance decimal.Decimal
}

// Project compounds balance forward for months steps under a single frozen
// APY — the rate applicable today. It deliberately ignores future schedule
// changes: the series is an illustrative estimate, not a forecast.
//
// months == 0 yields just the starting point; a negative count falls back
// to a 12-month horizon.
func Project(balance decimal.Decimal, apy float64, months int) []ProjectionPoint {
	if months < 0 {
		months = 12
	}
	growth := decimal.NewFromFloat(1 + MonthlyRate(apy))
	out := make([]ProjectionPoint, 0, months+1)
	out = append(out, ProjectionPoint{Month: 0, Balance: balance})
	cur := balance
	for i := 1; i <= months; i++ {
		cur = cur.Mul(growth)
		out = append(out, ProjectionPoint{Month: i, Balance: cur})
	}
	return out
}
