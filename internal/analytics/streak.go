// Package analytics derives statistics from the journal: streaks, missed
// days and the dashboard distributions. Everything here recomputes from a
// full snapshot of the relevant tables on each call; the dataset is one row
// per day at most, so full scans stay cheap.
package analytics

import (
	"sort"
	"time"

	"github.com/avolkau/daybook/internal/entities"
)

// StreakStats describes journaling consistency derived from entry dates.
type StreakStats struct {
	Current int `json:"current_streak"`
	Longest int `json:"longest_streak"`
	Missed  int `json:"missed_days"`
}

// ComputeStreak walks the distinct entry days in ascending order. A gap of
// exactly one day extends the running streak; a larger gap contributes
// gap-1 missed days and resets the run. The current streak only counts when
// the most recent entry day is today, walking backward until the first
// non-consecutive gap.
//
// Duplicate dates are collapsed before the walk. The store's one-entry-per-day
// invariant means they cannot occur, but the computation does not depend on it.
func ComputeStreak(dates []time.Time, today time.Time) StreakStats {
	if len(dates) == 0 {
		return StreakStats{}
	}

	days := distinctDays(dates)

	longest, running, missed := 1, 1, 0
	for i := 1; i < len(days); i++ {
		gap := daysBetween(days[i-1], days[i])
		if gap == 1 {
			running++
			if running > longest {
				longest = running
			}
		} else {
			missed += gap - 1
			running = 1
		}
	}

	current := 0
	if days[len(days)-1].Equal(entities.DayOf(today)) {
		current = 1
		for i := len(days) - 1; i > 0; i-- {
			if daysBetween(days[i-1], days[i]) != 1 {
				break
			}
			current++
		}
	}

	return StreakStats{Current: current, Longest: longest, Missed: missed}
}

// distinctDays truncates to day granularity, deduplicates and sorts ascending.
func distinctDays(dates []time.Time) []time.Time {
	seen := make(map[time.Time]bool, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := entities.DayOf(d)
		if seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// daysBetween counts whole days from a to b. Both are UTC midnights, so the
// division is exact.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
