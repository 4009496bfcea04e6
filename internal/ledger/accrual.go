package ledger

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Result is the accrual bundle for one account as of one calendar day.
// Values are exact (unrounded); display rounding belongs to the caller.
type Result struct {
	// Base is the plain signed sum of all transactions, ignoring any
	// computed interest. Fallback figure for never-funded accounts.
	Base decimal.Decimal

	// TotalInterest is the sum of all posted month-end interest.
	TotalInterest decimal.Decimal

	// StartOfMonth is the balance carried into the current, not yet
	// closed month (all completed months replayed, interest applied).
	StartOfMonth decimal.Decimal

	// AccruedCurrentMonth is the day-prorated share of the current
	// month's hypothetical full-month interest.
	AccruedCurrentMonth decimal.Decimal

	// Current is the balance as of asOf including current-month
	// transactions and the partial accrual.
	Current decimal.Decimal

	// NextMonthEstimate is next month's interest assuming no further
	// transactions this month. Informational only.
	NextMonthEstimate decimal.Decimal

	// Posted holds one Interest transaction per completed month whose
	// interest was nonzero, dated that month's last day, in order.
	Posted []Transaction
}

// ComputeAccrual replays an account's history month by month and returns
// the accrual bundle as of asOf. It is a pure function of its inputs:
// identical arguments always produce identical results, so callers may
// memoize per calendar day.
//
// Interest for a completed month is computed on the balance carried into
// the month, before that month's own transactions apply; a mid-month
// deposit starts earning the following month. The current month accrues
// linearly by elapsed days. A negative balance accrues negative interest
// the same way; overdrafts are not special-cased.
func ComputeAccrual(txs []Transaction, sched Schedule, asOf civil.Date) Result {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	base := decimal.Zero
	for _, t := range sorted {
		base = base.Add(t.Signed())
	}

	// The accrual clock starts at the first funding transaction: the
	// first in date order with a positive signed amount, not merely the
	// first overall, so a leading withdrawal does not disable interest.
	firstFunded := -1
	for i, t := range sorted {
		if t.Signed().Sign() > 0 {
			firstFunded = i
			break
		}
	}
	if firstFunded < 0 {
		// Never funded: base only, no interest ever accrued.
		return Result{Base: base, Current: base}
	}

	clockStart := MonthStart(sorted[firstFunded].Date)
	currentMonthStart := MonthStart(asOf)

	running := decimal.Zero
	for _, t := range sorted {
		if t.Date.Before(clockStart) {
			running = running.Add(t.Signed())
		}
	}

	var posted []Transaction
	totalInterest := decimal.Zero
	for m := clockStart; m.Before(currentMonthStart); m = NextMonthStart(m) {
		rate := decimal.NewFromFloat(MonthlyRate(sched.RateOn(m)))
		interest := running.Mul(rate)
		if !interest.IsZero() {
			posted = append(posted, Transaction{
				Date:   MonthEnd(m),
				Kind:   Interest,
				Amount: interest,
			})
			totalInterest = totalInterest.Add(interest)
		}
		running = running.Add(interest).Add(sumBetween(sorted, m, MonthEnd(m)))
	}

	startOfMonth := running

	fullMonth := startOfMonth.Mul(decimal.NewFromFloat(MonthlyRate(sched.RateOn(currentMonthStart))))
	days := DaysInMonth(asOf)
	elapsed := asOf.Day
	if elapsed > days {
		elapsed = days
	}
	accrued := fullMonth.Mul(decimal.NewFromInt(int64(elapsed))).
		Div(decimal.NewFromInt(int64(days)))

	monthToDate := sumBetween(sorted, currentMonthStart, asOf)
	current := startOfMonth.Add(monthToDate).Add(accrued)

	predictedStartNext := startOfMonth.Add(fullMonth).Add(monthToDate)
	nextRate := decimal.NewFromFloat(MonthlyRate(sched.RateOn(NextMonthStart(asOf))))
	nextEstimate := predictedStartNext.Mul(nextRate)

	return Result{
		Base:                base,
		TotalInterest:       totalInterest,
		StartOfMonth:        startOfMonth,
		AccruedCurrentMonth: accrued,
		Current:             current,
		NextMonthEstimate:   nextEstimate,
		Posted:              posted,
	}
}

// sumBetween totals signed amounts for transactions dated in [from, to],
// both ends inclusive. Inputs must already be sorted by date.
func sumBetween(sorted []Transaction, from, to civil.Date) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range sorted {
		if t.Date.Before(from) {
			continue
		}
		if t.Date.After(to) {
			break
		}
		sum = sum.Add(t.Signed())
	}
	return sum
}
