// file: internal/services/streak_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextStreakFirstActivity(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, nextStreak(nil, now, 0))
}

func TestNextStreakSameDayKeepsStreak(t *testing.T) {
	last := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 5, nextStreak(&last, now, 5))
}

func TestNextStreakConsecutiveDayExtends(t *testing.T) {
	last := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 6, nextStreak(&last, now, 5))
}

func TestNextStreakGapRestarts(t *testing.T) {
	last := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, nextStreak(&last, now, 9))
}

func TestNextStreakUsesUTCCalendarDays(t *testing.T) {
	// 23:30 UTC and 00:30 UTC the next day are different calendar days
	// even though barely an hour apart
	last := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	now := time.Date(2025, 3, 11, 0, 30, 0, 0, time.UTC)

	assert.Equal(t, 3, nextStreak(&last, now, 2))
}

func TestNextStreakNonUTCInputsNormalized(t *testing.T) {
	// 02:00+03:00 on March 11 is 23:00 UTC on March 10
	zone := time.FixedZone("EAT", 3*60*60)
	last := time.Date(2025, 3, 11, 2, 0, 0, 0, zone)
	now := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, 4, nextStreak(&last, now, 4))
}

func TestDaysBetweenUTC(t *testing.T) {
	a := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 1, daysBetweenUTC(a, b))
	assert.Equal(t, 0, daysBetweenUTC(a, a))
}
