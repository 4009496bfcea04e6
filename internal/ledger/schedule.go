package ledger

import (
	"math"
	"sort"

	"cloud.google.com/go/civil"
)

// RateInterval applies an annual rate to the inclusive date range
// [Start, End]. Annual is a fraction: 0.05 means 5%.
type RateInterval struct {
	Start  civil.Date
	End    civil.Date
	Annual float64
}

// Covers reports whether d falls inside the interval, both ends inclusive.
func (iv RateInterval) Covers(d civil.Date) bool {
	return !d.Before(iv.Start) && !d.After(iv.End)
}

// Schedule is an ordered set of rate intervals. Construct with NewSchedule;
// the zero value is a valid empty schedule (rate 0 everywhere).
type Schedule struct {
	intervals []RateInterval
}

// NewSchedule normalizes and orders a raw interval set. A raw rate above 1
// is treated as a percentage and divided by 100, so 5 and 0.05 are the same
// input. Intervals are stably sorted by start date; this fixes the overlap
// tie-break in RateOn once, at construction time.
func NewSchedule(intervals []RateInterval) Schedule {
	norm := make([]RateInterval, len(intervals))
	copy(norm, intervals)
	for i := range norm {
		if norm[i].Annual > 1 {
			norm[i].Annual /= 100
		}
	}
	sort.SliceStable(norm, func(i, j int) bool {
		return norm[i].Start.Before(norm[j].Start)
	})
	return Schedule{intervals: norm}
}

// Empty reports whether the schedule has no intervals. Used by the loader
// to decide whether the global fallback schedule applies.
func (s Schedule) Empty() bool { return len(s.intervals) == 0 }

// Intervals returns a copy of the normalized, ordered intervals.
func (s Schedule) Intervals() []RateInterval {
	out := make([]RateInterval, len(s.intervals))
	copy(out, s.intervals)
	return out
}

// RateOn returns the annual rate in force on d. Overlapping intervals
// resolve to the earliest-starting match; a date no interval covers
// yields 0, meaning no interest accrues, not an error.
func (s Schedule) RateOn(d civil.Date) float64 {
	for _, iv := range s.intervals {
		if iv.Covers(d) {
			return iv.Annual
		}
	}
	return 0
}

// MonthlyRate de-annualizes an APY geometrically: the monthly rate m such
// that (1+m)^12 = 1+apy. Not apy/12.
func MonthlyRate(apy float64) float64 {
	return math.Pow(1+apy, 1.0/12) - 1
}
