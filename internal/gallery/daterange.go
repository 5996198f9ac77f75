package gallery

import "time"

// DateRange is a half-open UTC interval [From, To). Nil bounds mean
// unconstrained.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// BuildDateRange converts optional year/month/day parts into UTC timestamp
// bounds. Zero values mean "not given"; without a year the range is empty.
//
// Out-of-range day values roll over via time.Date arithmetic (day 31 in a
// 30-day month lands in the next month). Callers validate nominal ranges
// before invoking this, so the roll-over is deliberate passthrough.
func BuildDateRange(year, month, day int) DateRange {
	if year == 0 {
		return DateRange{}
	}

	var from, to time.Time
	switch {
	case month != 0 && day != 0:
		from = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 0, 1)
	case month != 0:
		from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, 0)
	default:
		from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(1, 0, 0)
	}

	return DateRange{From: &from, To: &to}
}

// Empty reports whether the range constrains nothing
func (r DateRange) Empty() bool {
	return r.From == nil && r.To == nil
}

// Contains reports whether t falls inside the interval
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && !t.Before(*r.To) {
		return false
	}
	return true
}
