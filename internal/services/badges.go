// file: internal/services/badges.go
package services

import (
	"quantlearn/internal/models"
)

// userMetrics is the snapshot of everything badge criteria can test.
// BadgesEarned reflects the count held before the current evaluation pass,
// so awards within one pass do not feed back into it.
type userMetrics struct {
	TopicsCompleted int
	QuizzesTaken    int
	QuizzesPassed   int
	CurrentStreak   int
	LongestStreak   int
	TotalPoints     int
	Level           int
	BadgesEarned    int
}

func metricsFromStats(stats *models.UserStats, quizzesPassed, badgesEarned int) userMetrics {
	return userMetrics{
		TopicsCompleted: stats.TopicsCompleted,
		QuizzesTaken:    stats.QuizzesTaken,
		QuizzesPassed:   quizzesPassed,
		CurrentStreak:   stats.CurrentStreak,
		LongestStreak:   stats.LongestStreak,
		TotalPoints:     stats.TotalPoints,
		Level:           stats.Level,
		BadgesEarned:    badgesEarned,
	}
}

// metricValue dispatches a threshold criterion kind to its metric. The
// second return is false for kinds the evaluator does not recognize.
func (m userMetrics) metricValue(kind models.CriterionKind) (int, bool) {
	switch kind {
	case models.CriterionTopicsCompleted:
		return m.TopicsCompleted, true
	case models.CriterionQuizzesTaken:
		return m.QuizzesTaken, true
	case models.CriterionQuizzesPassed:
		return m.QuizzesPassed, true
	case models.CriterionStreakDays:
		return m.CurrentStreak, true
	case models.CriterionLongestStreak:
		return m.LongestStreak, true
	case models.CriterionPointsEarned:
		return m.TotalPoints, true
	case models.CriterionLevelReached:
		return m.Level, true
	case models.CriterionBadgesEarned:
		return m.BadgesEarned, true
	default:
		return 0, false
	}
}

// badgeSatisfied evaluates all criteria with AND semantics, short-circuiting
// on the first failure. An empty criteria set never awards, and any
// unrecognized criterion kind makes the badge unsatisfiable.
func badgeSatisfied(criteria models.BadgeCriteria, metrics userMetrics, action string) bool {
	if len(criteria) == 0 {
		return false
	}
	for _, crit := range criteria {
		if crit.Kind == models.CriterionAction {
			if crit.Action != action {
				return false
			}
			continue
		}
		current, ok := metrics.metricValue(crit.Kind)
		if !ok {
			return false
		}
		if current < crit.Target {
			return false
		}
	}
	return true
}

// badgeProgressFor reports progress toward a badge using the single highest
// priority threshold criterion. Badges with no recognized threshold
// criterion report no progress at all.
func badgeProgressFor(badge *models.Badge, metrics userMetrics) (*models.BadgeProgress, bool) {
	for _, kind := range models.ThresholdKinds {
		target, ok := badge.Criteria.Threshold(kind)
		if !ok {
			continue
		}
		current, _ := metrics.metricValue(kind)

		progress := 0.0
		if target > 0 {
			progress = float64(current) / float64(target)
			if progress > 1.0 {
				progress = 1.0
			}
		}
		return &models.BadgeProgress{
			Badge:    *badge,
			Current:  current,
			Target:   target,
			Progress: progress,
			IsEarned: current >= target,
		}, true
	}
	return nil, false
}

// defaultBadges is the seeded catalog, in display order.
func defaultBadges() []*models.Badge {
	return []*models.Badge{
		{
			ID:          "first_topic",
			Name:        "First Steps",
			Description: "Complete your first topic",
			Icon:        "🎯",
			Category:    models.BadgeCategoryProgress,
			Criteria: models.BadgeCriteria{
				{Kind: models.CriterionAction, Action: ActionTopicCompleted},
				{Kind: models.CriterionTopicsCompleted, Target: 1},
			},
			Rarity: models.BadgeRarityCommon,
			Points: 10,
		},
		{
			ID:          "topic_master",
			Name:        "Topic Master",
			Description: "Complete 10 topics",
			Icon:        "📚",
			Category:    models.BadgeCategoryProgress,
			Criteria: models.BadgeCriteria{
				{Kind: models.CriterionTopicsCompleted, Target: 10},
			},
			Rarity: models.BadgeRarityRare,
			Points: 50,
		},
		{
			ID:          "completionist",
			Name:        "Completionist",
			Description: "Complete all available topics",
			Icon:        "🏆",
			Category:    models.BadgeCategoryMilestone,
			Criteria: models.BadgeCriteria{
				{Kind: models.CriterionTopicsCompleted, Target: 39},
			},
			Rarity: models.BadgeRarityLegendary,
			Points: 500,
		},
		{
			ID:          "first_quiz",
			Name:        "Quiz Taker",
			Description: "Take your first quiz",
			Icon:        "❓",
			Category:    models.BadgeCategoryQuiz,
			Criteria: models.BadgeCriteria{
				{Kind: models.CriterionAction, Action: ActionQuizCompleted},
				{Kind: models.CriterionQuizzesTaken, Target: 1},
			},
			Rarity: models.BadgeRarityCommon,
			Points: 15,
		},
		{
			ID:          "quiz_master",
			Name:        "Quiz Master",
			Description: "Pass 10 quizzes",
			Icon:        "🧠",
			Category:    models.BadgeCategoryQuiz,
			Criteria: models.BadgeCriteria{
				{Kind: models.CriterionQuizzesPassed, Target: 10},
			},
			Rarity: models.BadgeRarityEpic,
			Points: 100,
		},
		{
			ID:          "streak_3",
			Name:        "Consistent Learner",
			Description: "Maintain a 3-day study streak",
			Icon:        "🔥",
			Category:    models.BadgeCategoryStreak,
			Criteria: models.BadgeCriteria{
				{Kind: models.CriterionStreakDays, Target: 3},
			},
			Rarity: models.BadgeRarityCommon,
			Points: 25,
		},
		{
			ID:          "streak_7",
			Name:        "Week Warrior",
			Description: "Maintain a 7-day study streak",
			Icon:        "⚡",
			Category:    models.BadgeCategoryStreak,
			Criteria: models.BadgeCriteria{
				{Kind: models.CriterionStreakDays, Target: 7},
			},
			Rarity: models.BadgeRarityRare,
			Points: 75,
		},
		{
			ID:          "streak_30",
			Name:        "Dedicated Scholar",
			Description: "Maintain a 30-day study streak",
			Icon:        "💎",
			Category:    models.BadgeCategoryStreak,
			Criteria: models.BadgeCriteria{
				{Kind: models.CriterionStreakDays, Target: 30},
			},
			Rarity: models.BadgeRarityLegendary,
			Points: 300,
		},
		{
			ID:          "level_5",
			Name:        "Getting Started",
			Description: "Reach level 5",
			Icon:        "⭐",
			Category:    models.BadgeCategoryMilestone,
			Criteria: models.BadgeCriteria{
				{Kind: models.CriterionLevelReached, Target: 5},
			},
			Rarity: models.BadgeRarityCommon,
			Points: 50,
		},
		{
			ID:          "level_10",
			Name:        "Dedicated Learner",
			Description: "Reach level 10",
			Icon:        "🌟",
			Category:    models.BadgeCategoryMilestone,
			Criteria: models.BadgeCriteria{
				{Kind: models.CriterionLevelReached, Target: 10},
			},
			Rarity: models.BadgeRarityRare,
			Points: 100,
		},
		{
			ID:          "level_25",
			Name:        "Knowledge Seeker",
			Description: "Reach level 25",
			Icon:        "💫",
			Category:    models.BadgeCategoryMilestone,
			Criteria: models.BadgeCriteria{
				{Kind: models.CriterionLevelReached, Target: 25},
			},
			Rarity: models.BadgeRarityEpic,
			Points: 250,
		},
		{
			ID:          "level_50",
			Name:        "Learning Master",
			Description: "Reach level 50",
			Icon:        "👑",
			Category:    models.BadgeCategoryMilestone,
			Criteria: models.BadgeCriteria{
				{Kind: models.CriterionLevelReached, Target: 50},
			},
			Rarity: models.BadgeRarityLegendary,
			Points: 500,
		},
		{
			ID:          "first_badge",
			Name:        "Achievement Hunter",
			Description: "Earn your first badge",
			Icon:        "🎖️",
			Category:    models.BadgeCategorySpecial,
			Criteria: models.BadgeCriteria{
				{Kind: models.CriterionBadgesEarned, Target: 1},
			},
			Rarity: models.BadgeRarityCommon,
			Points: 20,
		},
		{
			ID:          "badge_collector",
			Name:        "Badge Collector",
			Description: "Earn 10 badges",
			Icon:        "🏅",
			Category:    models.BadgeCategorySpecial,
			Criteria: models.BadgeCriteria{
				{Kind: models.CriterionBadgesEarned, Target: 10},
			},
			Rarity: models.BadgeRarityEpic,
			Points: 200,
		},
	}
}
