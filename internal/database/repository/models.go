package repository

import "time"

// Account represents an account row.
type Account struct {
	ID        string
	Name      string
	Owner     string
	CreatedAt time.Time
}

// Transaction represents a transaction row. Date stays the raw
// "YYYY-MM-DD" text of the source document; the loader parses it into a
// calendar date at the boundary.
type Transaction struct {
	ID          string
	AccountID   string
	Date        string
	Kind        string
	AmountCents int64
	Note        string
	SourceHash  *string
	CreatedAt   time.Time
}

// RateInterval represents a rate_intervals row. AccountID nil means the
// row belongs to the global fallback schedule.
type RateInterval struct {
	ID         string
	AccountID  *string
	StartDate  string
	EndDate    string
	AnnualRate float64
}
