package repository

import (
	"context"
	"database/sql"
)

// RateRepo handles rate schedule rows.
type RateRepo struct {
	db *sql.DB
}

func NewRateRepo(db *sql.DB) *RateRepo { return &RateRepo{db: db} }

func (r *RateRepo) Insert(ctx context.Context, iv RateInterval) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO rate_intervals(id, account_id, start_date, end_date, annual_rate)
	VALUES(?, ?, ?, ?, ?);
	`, iv.ID, iv.AccountID, iv.StartDate, iv.EndDate, iv.AnnualRate)
	return err
}

// ListForAccount returns the account's own schedule rows in start order.
func (r *RateRepo) ListForAccount(ctx context.Context, accountID string) ([]RateInterval, error) {
	return r.list(ctx,
		`SELECT id, account_id, start_date, end_date, annual_rate
		 FROM rate_intervals WHERE account_id = ? ORDER BY start_date ASC`, accountID)
}

// ListGlobal returns the fallback schedule: rows bound to no account.
func (r *RateRepo) ListGlobal(ctx context.Context) ([]RateInterval, error) {
	return r.list(ctx,
		`SELECT id, account_id, start_date, end_date, annual_rate
		 FROM rate_intervals WHERE account_id IS NULL ORDER BY start_date ASC`)
}

func (r *RateRepo) list(ctx context.Context, query string, args ...interface{}) ([]RateInterval, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RateInterval
	for rows.Next() {
		var iv RateInterval
		var acct sql.NullString
		if err := rows.Scan(&iv.ID, &acct, &iv.StartDate, &iv.EndDate, &iv.AnnualRate); err != nil {
			return nil, err
		}
		if acct.Valid {
			iv.AccountID = &acct.String
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}
