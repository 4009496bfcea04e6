package service

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jask/nestegg/internal/database/repository"
	"github.com/jask/nestegg/internal/ledger"
)

// Loader reads the whole data file once per session and hands the rest of
// the app normalized, immutable ledger accounts. Everything downstream of
// here is pure computation; all coercion of raw rows happens in this file.
type Loader struct {
	Accounts     *repository.AccountRepo
	Transactions *repository.TransactionRepo
	Rates        *repository.RateRepo
	Log          zerolog.Logger
}

// Load returns every account with its transaction history and resolved
// schedule. An account with no schedule rows of its own gets the global
// fallback schedule — substituted whole, not merged.
func (l *Loader) Load(ctx context.Context) ([]ledger.Account, error) {
	globalRows, err := l.Rates.ListGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("load global schedule: %w", err)
	}
	fallback := ledger.NewSchedule(l.toIntervals(globalRows))

	accounts, err := l.Accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	out := make([]ledger.Account, 0, len(accounts))
	for _, a := range accounts {
		txRows, err := l.Transactions.ListByAccount(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("load transactions for %s: %w", a.Name, err)
		}
		txs := make([]ledger.Transaction, 0, len(txRows))
		for _, row := range txRows {
			t, ok := l.normalizeTransaction(row)
			if !ok {
				continue
			}
			txs = append(txs, t)
		}

		ivRows, err := l.Rates.ListForAccount(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("load schedule for %s: %w", a.Name, err)
		}
		sched := ledger.NewSchedule(l.toIntervals(ivRows))
		if sched.Empty() {
			sched = fallback
		}

		out = append(out, ledger.Account{
			ID:           a.ID,
			Name:         a.Name,
			Owner:        a.Owner,
			Transactions: txs,
			Schedule:     sched,
		})
	}

	l.Log.Info().Int("accounts", len(out)).Msg("data source loaded")
	return out, nil
}

// normalizeTransaction coerces a raw row into a ledger transaction. A row
// with an unparseable date is dropped; an unrecognized kind falls back to
// the sign convention of the stored cents. The engine never re-validates.
func (l *Loader) normalizeTransaction(row repository.Transaction) (ledger.Transaction, bool) {
	d, err := civil.ParseDate(row.Date)
	if err != nil {
		l.Log.Warn().Str("id", row.ID).Str("date", row.Date).Msg("dropping transaction with bad date")
		return ledger.Transaction{}, false
	}

	kind, ok := ledger.ParseKind(row.Kind)
	if !ok {
		if row.AmountCents < 0 {
			kind = ledger.Withdrawal
		} else {
			kind = ledger.Deposit
		}
		l.Log.Warn().Str("id", row.ID).Str("kind", row.Kind).
			Stringer("coerced", kind).Msg("unrecognized transaction kind")
	}

	cents := row.AmountCents
	if cents < 0 {
		cents = -cents
	}
	return ledger.Transaction{
		Date:   d,
		Kind:   kind,
		Amount: decimal.New(cents, -2),
		Note:   row.Note,
	}, true
}

func (l *Loader) toIntervals(rows []repository.RateInterval) []ledger.RateInterval {
	out := make([]ledger.RateInterval, 0, len(rows))
	for _, row := range rows {
		start, err := civil.ParseDate(row.StartDate)
		if err != nil {
			l.Log.Warn().Str("id", row.ID).Str("start", row.StartDate).Msg("dropping rate interval with bad start date")
			continue
		}
		end, err := civil.ParseDate(row.EndDate)
		if err != nil {
			l.Log.Warn().Str("id", row.ID).Str("end", row.EndDate).Msg("dropping rate interval with bad end date")
			continue
		}
		if end.Before(start) {
			l.Log.Warn().Str("id", row.ID).Msg("dropping rate interval with end before start")
			continue
		}
		out = append(out, ledger.RateInterval{Start: start, End: end, Annual: row.AnnualRate})
	}
	return out
}
