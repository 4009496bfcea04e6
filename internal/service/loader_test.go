package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/nestegg/internal/database/repository"
	"github.com/jask/nestegg/internal/ledger"
)

func TestLoaderNormalizesAndFallsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := setupDB(t)
	svc := newIngest(db)

	txData := "2025-01-01,deposit,1000,opening\n2025-02-10,withdrawal,250\n"
	_, err := svc.ImportTransactionsCSV(ctx, strings.NewReader(txData), "Holiday Fund")
	require.NoError(t, err)
	_, err = svc.ImportTransactionsCSV(ctx, strings.NewReader("2025-03-05,deposit,40\n"), "Emergency Fund")
	require.NoError(t, err)

	// Holiday Fund has its own schedule; Emergency Fund relies on the
	// global fallback.
	_, err = svc.ImportRatesCSV(ctx, strings.NewReader("2025-01-01,2025-12-31,4.5\n"), "Holiday Fund")
	require.NoError(t, err)
	_, err = svc.ImportRatesCSV(ctx, strings.NewReader("2000-01-01,2099-12-31,2\n"), "")
	require.NoError(t, err)

	loader := &Loader{
		Accounts:     svc.Accounts,
		Transactions: svc.Transactions,
		Rates:        svc.Rates,
		Log:          zerolog.Nop(),
	}
	accounts, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	byName := map[string]ledger.Account{}
	for _, a := range accounts {
		byName[a.Name] = a
	}

	holiday := byName["Holiday Fund"]
	require.Len(t, holiday.Transactions, 2)
	require.Equal(t, ledger.Deposit, holiday.Transactions[0].Kind)
	require.True(t, holiday.Transactions[0].Amount.Equal(dec(t, "1000")))
	require.Equal(t, "opening", holiday.Transactions[0].Note)
	require.Equal(t, ledger.Withdrawal, holiday.Transactions[1].Kind)
	require.True(t, holiday.Transactions[1].Amount.Equal(dec(t, "250")))
	// 4.5 normalized to 0.045 at schedule construction.
	require.Equal(t, 0.045, holiday.Schedule.RateOn(mustDate(t, "2025-06-01")))

	emergency := byName["Emergency Fund"]
	require.True(t, len(emergency.Schedule.Intervals()) == 1)
	require.Equal(t, 0.02, emergency.Schedule.RateOn(mustDate(t, "2025-06-01")))
}

func TestLoaderCoercesUnknownKindBySign(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := setupDB(t)
	accounts := repository.NewAccountRepo(db)
	transactions := repository.NewTransactionRepo(db)

	acct := repository.Account{ID: uuid.NewString(), Name: "Raw"}
	require.NoError(t, accounts.Upsert(ctx, acct))

	// Rows as a messy source document might carry them: an unrecognized
	// kind with signed cents, and one unparseable date.
	rows := []repository.Transaction{
		{ID: uuid.NewString(), AccountID: acct.ID, Date: "2025-01-02", Kind: "bonus", AmountCents: 500},
		{ID: uuid.NewString(), AccountID: acct.ID, Date: "2025-01-03", Kind: "fee", AmountCents: -200},
		{ID: uuid.NewString(), AccountID: acct.ID, Date: "03/01/2025", Kind: "deposit", AmountCents: 100},
	}
	for _, r := range rows {
		require.NoError(t, transactions.Insert(ctx, r))
	}

	loader := &Loader{
		Accounts:     accounts,
		Transactions: transactions,
		Rates:        repository.NewRateRepo(db),
		Log:          zerolog.Nop(),
	}
	loaded, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	txs := loaded[0].Transactions
	require.Len(t, txs, 2, "bad-date row must be dropped")
	require.Equal(t, ledger.Deposit, txs[0].Kind)
	require.True(t, txs[0].Amount.Equal(dec(t, "5")))
	require.Equal(t, ledger.Withdrawal, txs[1].Kind)
	require.True(t, txs[1].Amount.Equal(dec(t, "2")))
	require.True(t, loaded[0].Schedule.Empty())
}
