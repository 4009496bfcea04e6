package repository

import (
	"context"
	"database/sql"
)

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(id, account_id, date, kind, amount_cents, note, source_hash, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, t.ID, t.AccountID, t.Date, t.Kind, t.AmountCents, t.Note, t.SourceHash)
	return err
}

// ListByAccount returns an account's history oldest first. Ties on the
// same date keep insertion order (rowid), which the engine's stable sort
// relies on.
func (r *TransactionRepo) ListByAccount(ctx context.Context, accountID string) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, account_id, date, kind, amount_cents, note, source_hash, created_at
	FROM transactions WHERE account_id = ?
	ORDER BY date ASC, rowid ASC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TransactionRepo) CountForAccount(ctx context.Context, accountID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE account_id = ?`, accountID).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var source sql.NullString
	if err := row.Scan(&t.ID, &t.AccountID, &t.Date, &t.Kind, &t.AmountCents,
		&t.Note, &source, &t.CreatedAt); err != nil {
		return Transaction{}, err
	}
	if source.Valid {
		t.SourceHash = &source.String
	}
	return t, nil
}
