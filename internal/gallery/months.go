package gallery

import (
	"fmt"
	"sort"
	"time"
)

// Stamped is the minimal record shape the aggregator needs
type Stamped struct {
	TakenAt   time.Time
	UpdatedAt time.Time
}

// YearMonthStat is the derived per-month summary of a photo set. It is
// recomputed on every request, never persisted.
type YearMonthStat struct {
	Key             string    `json:"key"`
	Year            int       `json:"year"`
	Month           int       `json:"month"`
	Count           int       `json:"count"`
	LatestTakenAt   time.Time `json:"latestTakenAt"`
	LatestUpdatedAt time.Time `json:"latestUpdatedAt"`
	Label           string    `json:"label"`
	UpdatedLabel    string    `json:"updatedLabel"`
}

// AggregateMonths buckets records by the UTC year/month of takenAt and
// returns one stat per bucket, sorted by latestTakenAt descending.
// latestTakenAt and latestUpdatedAt are tracked independently: the bucket's
// most recently taken photo need not be its most recently updated one.
func AggregateMonths(records []Stamped, now time.Time) []YearMonthStat {
	buckets := make(map[string]*YearMonthStat)

	for _, rec := range records {
		taken := rec.TakenAt.UTC()
		updated := rec.UpdatedAt.UTC()
		key := fmt.Sprintf("%04d-%02d", taken.Year(), int(taken.Month()))

		stat, ok := buckets[key]
		if !ok {
			stat = &YearMonthStat{
				Key:             key,
				Year:            taken.Year(),
				Month:           int(taken.Month()),
				LatestTakenAt:   taken,
				LatestUpdatedAt: updated,
			}
			buckets[key] = stat
		}
		stat.Count++
		if taken.After(stat.LatestTakenAt) {
			stat.LatestTakenAt = taken
		}
		if updated.After(stat.LatestUpdatedAt) {
			stat.LatestUpdatedAt = updated
		}
	}

	stats := make([]YearMonthStat, 0, len(buckets))
	for _, stat := range buckets {
		stat.Label = MonthLabel(stat.Year, stat.Month)
		stat.UpdatedLabel = UpdatedLabel(stat.LatestUpdatedAt, now)
		stats = append(stats, *stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].LatestTakenAt.After(stats[j].LatestTakenAt)
	})

	return stats
}

// MonthLabel renders the display label for a month bucket
func MonthLabel(year, month int) string {
	return fmt.Sprintf("%d년 %d월", year, month)
}

// UpdatedLabel renders a relative "updated N days ago" label from the
// calendar-day difference between updatedAt and now, floored at zero.
func UpdatedLabel(updatedAt, now time.Time) string {
	days := calendarDaysBetween(updatedAt.UTC(), now.UTC())
	if days <= 0 {
		return "오늘 업데이트"
	}
	return fmt.Sprintf("%d일 전 업데이트", days)
}

func calendarDaysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}
