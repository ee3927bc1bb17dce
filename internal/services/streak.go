// file: internal/services/streak.go
package services

import (
	"time"
)

// daysBetweenUTC returns the whole calendar days between two instants in UTC,
// ignoring time of day.
func daysBetweenUTC(earlier, later time.Time) int {
	e := earlier.UTC()
	l := later.UTC()
	eDay := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	lDay := time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.UTC)
	return int(lDay.Sub(eDay).Hours() / 24)
}

// nextStreak computes the new streak value for activity at now. Streaks count
// consecutive UTC calendar days: same day keeps the streak, the next day
// extends it, any gap of two or more days restarts at 1.
func nextStreak(lastActivity *time.Time, now time.Time, current int) int {
	if lastActivity == nil {
		return 1
	}
	switch days := daysBetweenUTC(*lastActivity, now); {
	case days == 0:
		return current
	case days == 1:
		return current + 1
	default:
		return 1
	}
}
