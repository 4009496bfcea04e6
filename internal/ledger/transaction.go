package ledger

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Kind is the closed set of transaction kinds.
type Kind int

const (
	Deposit Kind = iota
	Withdrawal
	Interest
)

func (k Kind) String() string {
	switch k {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	case Interest:
		return "interest"
	}
	return "unknown"
}

// ParseKind maps a source string onto a Kind. Unrecognized strings are the
// loader's problem; the engine only ever sees the three valid kinds.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit":
		return Deposit, true
	case "withdrawal":
		return Withdrawal, true
	case "interest":
		return Interest, true
	}
	return Deposit, false
}

// Transaction is an immutable signed cash movement. Recorded deposits and
// withdrawals carry a non-negative Amount with the sign coming from the
// kind; a posted Interest transaction may carry a negative Amount when a
// negative balance accrued a debit.
type Transaction struct {
	Date   civil.Date
	Kind   Kind
	Amount decimal.Decimal
	Note   string
}

// Signed returns the transaction's contribution to the balance:
// positive for deposits and interest, negative for withdrawals.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == Withdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Account is a normalized per-user account: an ordered transaction history
// and the rate schedule that applies to it. Built once at load time and
// never mutated during a session.
type Account struct {
	ID           string
	Name         string
	Owner        string
	Transactions []Transaction
	Schedule     Schedule
}
