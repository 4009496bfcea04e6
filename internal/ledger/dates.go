package ledger

import (
	"time"

	"cloud.google.com/go/civil"
)

// MonthStart returns the first calendar day of d's month.
func MonthStart(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

// MonthEnd returns the last calendar day of d's month.
func MonthEnd(d civil.Date) civil.Date {
	return MonthStart(d).AddDays(DaysInMonth(d) - 1)
}

// NextMonthStart returns the first calendar day of the month after d's.
func NextMonthStart(d civil.Date) civil.Date {
	return MonthStart(d).AddDays(DaysInMonth(d))
}

// DaysInMonth returns the number of calendar days in d's month.
func DaysInMonth(d civil.Date) int {
	return time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, -1).Day()
}
