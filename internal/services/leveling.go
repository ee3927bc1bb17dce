// file: internal/services/leveling.go
package services

import (
	"quantlearn/internal/models"
)

// levelThreshold returns the experience required to advance past the given
// level. The chain is derived from the base so thresholds for any level are
// reproducible: 100, 150, 225, 337, ...
func levelThreshold(level int) int {
	threshold := models.BaseLevelThreshold
	for l := 1; l < level; l++ {
		threshold = int(float64(threshold) * 1.5)
	}
	return threshold
}

// applyPoints credits points against stats in place and reports the outcome.
// Levels only ever increase; leftover experience always ends below the
// current level's threshold. Zero points is a valid no-op grant that still
// runs the level check.
func applyPoints(stats *models.UserStats, points int) (*models.PointsResult, error) {
	if points < 0 {
		return nil, NewValidationError("points cannot be negative", nil)
	}

	stats.TotalPoints += points
	newExp := stats.ExperiencePoints + points

	levelUp := false
	threshold := levelThreshold(stats.Level)
	for newExp >= threshold {
		stats.Level++
		newExp -= threshold
		threshold = int(float64(threshold) * 1.5)
		levelUp = true
	}
	stats.ExperiencePoints = newExp
	stats.ExperienceToNextLevel = threshold

	return &models.PointsResult{
		PointsGained: points,
		NewTotal:     stats.TotalPoints,
		LevelUp:      levelUp,
		NewLevel:     stats.Level,
	}, nil
}
