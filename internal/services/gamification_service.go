// file: internal/services/gamification_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"quantlearn/internal/cache"
	"quantlearn/internal/config"
	"quantlearn/internal/models"
	"quantlearn/internal/repositories"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// gamificationService implements GamificationService on top of the stats,
// badge and quiz repositories, with a cache in front of the leaderboard.
type gamificationService struct {
	stats    repositories.StatsRepository
	badges   repositories.BadgeRepository
	quizzes  repositories.QuizRepository
	cache    cache.Cache
	cacheCfg *config.CacheConfig
	logger   *zap.Logger
}

// NewGamificationService creates the gamification engine.
func NewGamificationService(
	stats repositories.StatsRepository,
	badges repositories.BadgeRepository,
	quizzes repositories.QuizRepository,
	c cache.Cache,
	cacheCfg *config.CacheConfig,
	logger *zap.Logger,
) GamificationService {
	return &gamificationService{
		stats:    stats,
		badges:   badges,
		quizzes:  quizzes,
		cache:    c,
		cacheCfg: cacheCfg,
		logger:   logger,
	}
}

// ===============================
// STATS LIFECYCLE
// ===============================

// EnsureInitialized lazily creates the default stats row for the user.
func (s *gamificationService) EnsureInitialized(ctx context.Context, userID int64) (*models.UserStats, error) {
	if userID <= 0 {
		return nil, NewValidationError("user id must be positive", nil)
	}
	stats, err := s.stats.EnsureExists(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to initialize user stats", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewServiceUnavailableError("gamification storage unavailable")
	}
	return stats, nil
}

// GetUserStats returns the user's stats, creating them if needed.
func (s *gamificationService) GetUserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	return s.EnsureInitialized(ctx, userID)
}

// AddStudyTime accumulates study minutes for the user.
func (s *gamificationService) AddStudyTime(ctx context.Context, userID int64, minutes int) error {
	if minutes <= 0 {
		return NewValidationError("study minutes must be positive", nil)
	}
	if _, err := s.EnsureInitialized(ctx, userID); err != nil {
		return err
	}
	if err := s.stats.AddStudyTime(ctx, userID, minutes); err != nil {
		s.logger.Error("Failed to add study time", zap.Error(err), zap.Int64("user_id", userID))
		return NewServiceUnavailableError("gamification storage unavailable")
	}
	return nil
}

// ===============================
// POINTS AND STREAKS
// ===============================

// AddPoints grants points, handles level-ups and persists the stats row.
func (s *gamificationService) AddPoints(ctx context.Context, userID int64, points int, reason string) (*models.PointsResult, error) {
	stats, err := s.EnsureInitialized(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := applyPoints(stats, points)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats.LastActivity = &now
	if err := s.stats.Update(ctx, stats); err != nil {
		s.logger.Error("Failed to persist points grant", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewServiceUnavailableError("gamification storage unavailable")
	}

	s.logger.Info("Points awarded",
		zap.Int64("user_id", userID),
		zap.Int("points", points),
		zap.String("reason", reason),
		zap.Bool("level_up", result.LevelUp),
		zap.Int("level", result.NewLevel),
	)
	return result, nil
}

// UpdateStudyStreak records activity for today and persists the new streak.
func (s *gamificationService) UpdateStudyStreak(ctx context.Context, userID int64) (*models.UserStats, error) {
	stats, err := s.EnsureInitialized(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s.advanceStreak(stats, now)

	if err := s.stats.Update(ctx, stats); err != nil {
		s.logger.Error("Failed to persist streak update", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewServiceUnavailableError("gamification storage unavailable")
	}
	return stats, nil
}

// advanceStreak applies the streak rules to stats in memory.
func (s *gamificationService) advanceStreak(stats *models.UserStats, now time.Time) {
	stats.CurrentStreak = nextStreak(stats.LastActivity, now, stats.CurrentStreak)
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastActivity = &now
}

// ===============================
// ACTIONS
// ===============================

// eventPoints maps a recorded action to its point grant and reason.
func eventPoints(action string, payload *ActionPayload) (int, string, error) {
	switch action {
	case ActionTopicCompleted:
		return 10, "Topic completed", nil
	case ActionQuizCompleted:
		var score float64
		if payload != nil && payload.Score != nil {
			score = *payload.Score
		}
		switch {
		case score >= 90:
			return 25, "Excellent quiz performance", nil
		case score >= 70:
			return 15, "Good quiz performance", nil
		default:
			return 5, "Quiz completed", nil
		}
	case ActionChatMessage:
		return 1, "Engaged with AI tutor", nil
	default:
		return 0, "", NewValidationError(fmt.Sprintf("unknown action %q", action), nil)
	}
}

// RecordAction runs the full pipeline for one learning event: streak update,
// activity counters, event points and a single badge evaluation pass.
func (s *gamificationService) RecordAction(ctx context.Context, userID int64, action string, payload *ActionPayload) (*ActionResult, error) {
	points, reason, err := eventPoints(action, payload)
	if err != nil {
		return nil, err
	}

	stats, err := s.EnsureInitialized(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s.advanceStreak(stats, now)

	switch action {
	case ActionTopicCompleted:
		stats.TopicsCompleted++
	case ActionQuizCompleted:
		stats.QuizzesTaken++
	}

	pointsResult, err := applyPoints(stats, points)
	if err != nil {
		return nil, err
	}

	if err := s.stats.Update(ctx, stats); err != nil {
		s.logger.Error("Failed to persist recorded action", zap.Error(err),
			zap.Int64("user_id", userID), zap.String("action", action))
		return nil, NewServiceUnavailableError("gamification storage unavailable")
	}

	s.logger.Info("Points awarded",
		zap.Int64("user_id", userID),
		zap.Int("points", points),
		zap.String("reason", reason),
		zap.Bool("level_up", pointsResult.LevelUp),
	)

	newBadges, err := s.checkBadges(ctx, stats, action)
	if err != nil {
		return nil, err
	}

	return &ActionResult{
		Action:    action,
		Points:    pointsResult,
		NewBadges: newBadges,
		Streak:    stats.CurrentStreak,
	}, nil
}

// checkBadges evaluates the catalog against the user's current metrics and
// awards everything newly satisfied, in catalog order. Badge points are
// granted directly, without re-entering evaluation, so one pass can never
// cascade. The badges_earned metric is frozen at the pre-pass count.
func (s *gamificationService) checkBadges(ctx context.Context, stats *models.UserStats, action string) ([]*models.Badge, error) {
	catalog, err := s.badges.GetAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load badge catalog", zap.Error(err))
		return nil, NewServiceUnavailableError("gamification storage unavailable")
	}

	earned, err := s.badges.GetUserBadges(ctx, stats.UserID)
	if err != nil {
		s.logger.Error("Failed to load earned badges", zap.Error(err), zap.Int64("user_id", stats.UserID))
		return nil, NewServiceUnavailableError("gamification storage unavailable")
	}
	earnedSet := make(map[string]bool, len(earned))
	for _, eb := range earned {
		earnedSet[eb.ID] = true
	}

	quizzesPassed, err := s.quizzes.CountPassed(ctx, stats.UserID)
	if err != nil {
		s.logger.Error("Failed to count passed quizzes", zap.Error(err), zap.Int64("user_id", stats.UserID))
		return nil, NewServiceUnavailableError("gamification storage unavailable")
	}

	metrics := metricsFromStats(stats, quizzesPassed, len(earned))

	var newBadges []*models.Badge
	awardedPoints := 0
	for _, badge := range catalog {
		if earnedSet[badge.ID] {
			continue
		}
		if !badgeSatisfied(badge.Criteria, metrics, action) {
			continue
		}

		id, err := uuid.NewV4()
		if err != nil {
			s.logger.Warn("Failed to generate badge award id",
				zap.Error(err), zap.String("badge_id", badge.ID))
			continue
		}
		award := &models.UserBadge{
			ID:       id.String(),
			UserID:   stats.UserID,
			BadgeID:  badge.ID,
			Progress: 1.0,
		}
		if err := s.badges.InsertUserBadge(ctx, award); err != nil {
			return nil, NewServiceUnavailableError("gamification storage unavailable")
		}

		result, err := applyPoints(stats, badge.Points)
		if err != nil {
			// A rejected grant means the catalog row itself is bad.
			s.logger.Error("Failed to apply badge bonus points",
				zap.Error(err),
				zap.String("badge_id", badge.ID),
				zap.Int("badge_points", badge.Points),
				zap.Int64("user_id", stats.UserID),
			)
		} else {
			awardedPoints += badge.Points
			if result.LevelUp {
				s.logger.Info("Level up from badge points",
					zap.Int64("user_id", stats.UserID),
					zap.Int("level", result.NewLevel),
				)
			}
		}
		newBadges = append(newBadges, badge)
	}

	if awardedPoints > 0 {
		if err := s.stats.Update(ctx, stats); err != nil {
			s.logger.Error("Failed to persist badge points", zap.Error(err), zap.Int64("user_id", stats.UserID))
			return nil, NewServiceUnavailableError("gamification storage unavailable")
		}
	}
	return newBadges, nil
}

// ===============================
// READS
// ===============================

// GetUserGamificationData assembles the full gamification view for a user.
func (s *gamificationService) GetUserGamificationData(ctx context.Context, userID int64) (*models.GamificationData, error) {
	stats, err := s.EnsureInitialized(ctx, userID)
	if err != nil {
		return nil, err
	}

	earned, err := s.badges.GetUserBadges(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load earned badges", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewServiceUnavailableError("gamification storage unavailable")
	}
	earnedSet := make(map[string]bool, len(earned))
	badges := make([]models.EarnedBadge, 0, len(earned))
	for _, eb := range earned {
		earnedSet[eb.ID] = true
		badges = append(badges, *eb)
	}

	quizzesPassed, err := s.quizzes.CountPassed(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count passed quizzes", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewServiceUnavailableError("gamification storage unavailable")
	}
	metrics := metricsFromStats(stats, quizzesPassed, len(earned))

	catalog, err := s.badges.GetAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load badge catalog", zap.Error(err))
		return nil, NewServiceUnavailableError("gamification storage unavailable")
	}

	progress := make([]models.BadgeProgress, 0, len(catalog))
	for _, badge := range catalog {
		if earnedSet[badge.ID] {
			continue
		}
		if bp, ok := badgeProgressFor(badge, metrics); ok {
			progress = append(progress, *bp)
		}
	}

	// Earned badges arrive newest first, so the head is the recent window.
	recent := badges
	if len(recent) > 5 {
		recent = recent[:5]
	}

	return &models.GamificationData{
		Stats:              stats,
		Badges:             badges,
		BadgeProgress:      progress,
		RecentAchievements: recent,
	}, nil
}

// GetLeaderboard returns the ranked top users, served from cache when fresh.
func (s *gamificationService) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	limit = repositories.NormalizeLimit(limit, 10, 100)
	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)

	var cached []*models.LeaderboardEntry
	if cache.GetJSON(ctx, s.cache, cacheKey, &cached) {
		return cached, nil
	}

	entries, err := s.stats.TopByPoints(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to load leaderboard", zap.Error(err))
		return nil, NewServiceUnavailableError("gamification storage unavailable")
	}

	if err := cache.SetJSON(ctx, s.cache, cacheKey, entries, s.cacheCfg.LeaderboardTTL); err != nil {
		s.logger.Warn("Failed to cache leaderboard", zap.Error(err))
	}
	return entries, nil
}

// GetBadgeCatalog returns all badge definitions.
func (s *gamificationService) GetBadgeCatalog(ctx context.Context) ([]*models.Badge, error) {
	catalog, err := s.badges.GetAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load badge catalog", zap.Error(err))
		return nil, NewServiceUnavailableError("gamification storage unavailable")
	}
	return catalog, nil
}

// SeedDefaultBadges upserts the built-in catalog. Safe to run on every boot.
func (s *gamificationService) SeedDefaultBadges(ctx context.Context) error {
	for i, badge := range defaultBadges() {
		if err := s.badges.Upsert(ctx, badge, i+1); err != nil {
			s.logger.Error("Failed to seed badge", zap.Error(err), zap.String("badge_id", badge.ID))
			return NewServiceUnavailableError("gamification storage unavailable")
		}
	}
	s.logger.Info("Badge catalog seeded", zap.Int("badges", len(defaultBadges())))
	return nil
}
