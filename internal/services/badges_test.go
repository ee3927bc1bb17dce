// file: internal/services/badges_test.go
package services

import (
	"testing"

	"quantlearn/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgeSatisfiedEmptyCriteriaNeverAwards(t *testing.T) {
	metrics := userMetrics{TopicsCompleted: 100, TotalPoints: 100000}

	assert.False(t, badgeSatisfied(models.BadgeCriteria{}, metrics, ActionTopicCompleted))
	assert.False(t, badgeSatisfied(nil, metrics, ActionTopicCompleted))
}

func TestBadgeSatisfiedAllCriteriaMustHold(t *testing.T) {
	criteria := models.BadgeCriteria{
		{Kind: models.CriterionTopicsCompleted, Target: 5},
		{Kind: models.CriterionStreakDays, Target: 3},
	}

	assert.True(t, badgeSatisfied(criteria, userMetrics{TopicsCompleted: 5, CurrentStreak: 3}, ""))
	assert.False(t, badgeSatisfied(criteria, userMetrics{TopicsCompleted: 5, CurrentStreak: 2}, ""))
	assert.False(t, badgeSatisfied(criteria, userMetrics{TopicsCompleted: 4, CurrentStreak: 3}, ""))
}

func TestBadgeSatisfiedActionFilter(t *testing.T) {
	criteria := models.BadgeCriteria{
		{Kind: models.CriterionAction, Action: ActionQuizCompleted},
		{Kind: models.CriterionQuizzesTaken, Target: 1},
	}
	metrics := userMetrics{QuizzesTaken: 1}

	assert.True(t, badgeSatisfied(criteria, metrics, ActionQuizCompleted))
	assert.False(t, badgeSatisfied(criteria, metrics, ActionTopicCompleted))
	assert.False(t, badgeSatisfied(criteria, metrics, ""))
}

func TestBadgeSatisfiedUnknownKindUnsatisfiable(t *testing.T) {
	criteria := models.BadgeCriteria{
		{Kind: models.CriterionKind("perfect_scores"), Target: 1},
	}
	metrics := userMetrics{TopicsCompleted: 100, QuizzesTaken: 100, TotalPoints: 100000}

	assert.False(t, badgeSatisfied(criteria, metrics, ActionQuizCompleted))
}

func TestBadgeSatisfiedExactThreshold(t *testing.T) {
	criteria := models.BadgeCriteria{
		{Kind: models.CriterionPointsEarned, Target: 500},
	}

	assert.True(t, badgeSatisfied(criteria, userMetrics{TotalPoints: 500}, ""))
	assert.False(t, badgeSatisfied(criteria, userMetrics{TotalPoints: 499}, ""))
}

func TestBadgeProgressPartial(t *testing.T) {
	badge := &models.Badge{
		ID: "topic_master",
		Criteria: models.BadgeCriteria{
			{Kind: models.CriterionTopicsCompleted, Target: 10},
		},
	}

	progress, ok := badgeProgressFor(badge, userMetrics{TopicsCompleted: 4})
	require.True(t, ok)

	assert.Equal(t, 4, progress.Current)
	assert.Equal(t, 10, progress.Target)
	assert.InDelta(t, 0.4, progress.Progress, 1e-9)
	assert.False(t, progress.IsEarned)
}

func TestBadgeProgressExactTarget(t *testing.T) {
	badge := &models.Badge{
		ID: "topic_master",
		Criteria: models.BadgeCriteria{
			{Kind: models.CriterionTopicsCompleted, Target: 10},
		},
	}

	progress, ok := badgeProgressFor(badge, userMetrics{TopicsCompleted: 10})
	require.True(t, ok)

	assert.Equal(t, 1.0, progress.Progress)
	assert.True(t, progress.IsEarned)
}

func TestBadgeProgressCappedAtOne(t *testing.T) {
	badge := &models.Badge{
		ID: "streak_3",
		Criteria: models.BadgeCriteria{
			{Kind: models.CriterionStreakDays, Target: 3},
		},
	}

	progress, ok := badgeProgressFor(badge, userMetrics{CurrentStreak: 9})
	require.True(t, ok)

	assert.Equal(t, 1.0, progress.Progress)
	assert.True(t, progress.IsEarned)
}

func TestBadgeProgressNoThresholdCriterion(t *testing.T) {
	badge := &models.Badge{
		ID: "action_only",
		Criteria: models.BadgeCriteria{
			{Kind: models.CriterionAction, Action: ActionChatMessage},
		},
	}

	_, ok := badgeProgressFor(badge, userMetrics{})
	assert.False(t, ok)
}

func TestDefaultBadgesCatalog(t *testing.T) {
	badges := defaultBadges()
	require.Len(t, badges, 14)

	seen := make(map[string]bool, len(badges))
	for _, b := range badges {
		assert.NotEmpty(t, b.ID)
		assert.NotEmpty(t, b.Name)
		assert.NotEmpty(t, b.Criteria, "badge %s must have criteria", b.ID)
		assert.False(t, b.Criteria.HasUnknown(), "badge %s has unknown criteria", b.ID)
		assert.False(t, seen[b.ID], "duplicate badge ID %s", b.ID)
		seen[b.ID] = true
	}
}

func TestMetricsFromStats(t *testing.T) {
	stats := models.NewUserStats(7)
	stats.TopicsCompleted = 3
	stats.QuizzesTaken = 8
	stats.CurrentStreak = 2
	stats.LongestStreak = 6
	stats.TotalPoints = 420
	stats.Level = 3

	metrics := metricsFromStats(stats, 5, 2)

	assert.Equal(t, 3, metrics.TopicsCompleted)
	assert.Equal(t, 8, metrics.QuizzesTaken)
	assert.Equal(t, 5, metrics.QuizzesPassed)
	assert.Equal(t, 2, metrics.CurrentStreak)
	assert.Equal(t, 6, metrics.LongestStreak)
	assert.Equal(t, 420, metrics.TotalPoints)
	assert.Equal(t, 3, metrics.Level)
	assert.Equal(t, 2, metrics.BadgesEarned)
}
