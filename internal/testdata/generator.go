package testdata

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jask/nestegg/internal/database/repository"
)

// Repos bundles repos used by Seed.
type Repos struct {
	Accounts     *repository.AccountRepo
	Transactions *repository.TransactionRepo
	Rates        *repository.RateRepo
}

// Seed creates sample accounts, a year of deposit history, and rate
// intervals. Holiday Fund carries its own schedule with a mid-year rate
// change; Emergency Fund has none and picks up the global fallback.
func Seed(ctx context.Context, repos Repos) error {
	holiday := repository.Account{ID: uuid.NewString(), Name: "Holiday Fund", Owner: "sample"}
	if err := repos.Accounts.Upsert(ctx, holiday); err != nil {
		return err
	}
	emergency := repository.Account{ID: uuid.NewString(), Name: "Emergency Fund", Owner: "sample"}
	if err := repos.Accounts.Upsert(ctx, emergency); err != nil {
		return err
	}

	year := time.Now().UTC().Year() - 1

	if err := seedMonthlyDeposits(ctx, repos.Transactions, holiday.ID, year, 50000, "payday transfer"); err != nil {
		return err
	}
	if err := seedMonthlyDeposits(ctx, repos.Transactions, emergency.ID, year, 20000, "auto-save"); err != nil {
		return err
	}
	withdrawal := repository.Transaction{
		ID:          uuid.NewString(),
		AccountID:   holiday.ID,
		Date:        fmt.Sprintf("%d-07-14", year),
		Kind:        "withdrawal",
		AmountCents: 80000,
		Note:        "flights",
	}
	if err := repos.Transactions.Insert(ctx, withdrawal); err != nil {
		return err
	}

	rates := []repository.RateInterval{
		{ID: uuid.NewString(), AccountID: &holiday.ID, StartDate: fmt.Sprintf("%d-01-01", year), EndDate: fmt.Sprintf("%d-06-30", year), AnnualRate: 0.035},
		{ID: uuid.NewString(), AccountID: &holiday.ID, StartDate: fmt.Sprintf("%d-07-01", year), EndDate: fmt.Sprintf("%d-12-31", year+5), AnnualRate: 0.0425},
		{ID: uuid.NewString(), AccountID: nil, StartDate: "2000-01-01", EndDate: "2099-12-31", AnnualRate: 0.02},
	}
	for _, r := range rates {
		if err := repos.Rates.Insert(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func seedMonthlyDeposits(ctx context.Context, repo *repository.TransactionRepo, accountID string, year int, cents int64, note string) error {
	for m := 1; m <= 12; m++ {
		tx := repository.Transaction{
			ID:          uuid.NewString(),
			AccountID:   accountID,
			Date:        fmt.Sprintf("%d-%02d-01", year, m),
			Kind:        "deposit",
			AmountCents: cents,
			Note:        note,
		}
		if err := repo.Insert(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}
