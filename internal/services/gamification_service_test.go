// file: internal/services/gamification_service_test.go
package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"quantlearn/internal/config"
	"quantlearn/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type gamificationFixture struct {
	service GamificationService
	stats   *fakeStatsRepo
	badges  *fakeBadgeRepo
	quizzes *fakeQuizRepo
	cache   *memoryCache
}

func newGamificationFixture(t *testing.T) *gamificationFixture {
	t.Helper()
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	stats := newFakeStatsRepo()
	badges := newFakeBadgeRepo()
	quizzes := newFakeQuizRepo()
	memCache := newMemoryCache()
	cacheCfg := &config.CacheConfig{LeaderboardTTL: time.Minute}

	return &gamificationFixture{
		service: NewGamificationService(stats, badges, quizzes, memCache, cacheCfg, logger),
		stats:   stats,
		badges:  badges,
		quizzes: quizzes,
		cache:   memCache,
	}
}

func (f *gamificationFixture) seedCatalog(t *testing.T) {
	t.Helper()
	require.NoError(t, f.service.SeedDefaultBadges(context.Background()))
}

func TestEnsureInitializedCreatesDefaultStats(t *testing.T) {
	f := newGamificationFixture(t)

	stats, err := f.service.EnsureInitialized(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), stats.UserID)
	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, 0, stats.TotalPoints)
	assert.Equal(t, models.BaseLevelThreshold, stats.ExperienceToNextLevel)
}

func TestEnsureInitializedRejectsNonPositiveUserID(t *testing.T) {
	f := newGamificationFixture(t)

	_, err := f.service.EnsureInitialized(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", GetServiceError(err).Type)
}

func TestRecordActionFirstTopicCompletion(t *testing.T) {
	f := newGamificationFixture(t)
	f.seedCatalog(t)

	result, err := f.service.RecordAction(context.Background(), 1, ActionTopicCompleted, nil)
	require.NoError(t, err)

	assert.Equal(t, ActionTopicCompleted, result.Action)
	assert.Equal(t, 10, result.Points.PointsGained)
	assert.Equal(t, 1, result.Streak)

	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, "first_topic", result.NewBadges[0].ID)

	// Event points plus the first_topic badge bonus.
	stats := f.stats.rows[1]
	assert.Equal(t, 20, stats.TotalPoints)
	assert.Equal(t, 1, stats.TopicsCompleted)

	awards := f.badges.awards[1]
	require.Len(t, awards, 1)
	assert.Equal(t, "first_topic", awards[0].BadgeID)
	assert.Equal(t, 1.0, awards[0].Progress)
	assert.NotEmpty(t, awards[0].ID)
}

func TestRecordActionDoesNotReawardBadges(t *testing.T) {
	f := newGamificationFixture(t)
	f.seedCatalog(t)
	ctx := context.Background()

	_, err := f.service.RecordAction(ctx, 1, ActionTopicCompleted, nil)
	require.NoError(t, err)

	result, err := f.service.RecordAction(ctx, 1, ActionTopicCompleted, nil)
	require.NoError(t, err)

	assert.Empty(t, result.NewBadges)
	assert.Len(t, f.badges.awards[1], 1)
	assert.Equal(t, 2, f.stats.rows[1].TopicsCompleted)
}

func TestRecordActionBadgeWithNegativePointsStillAwards(t *testing.T) {
	f := newGamificationFixture(t)
	require.NoError(t, f.badges.Upsert(context.Background(), &models.Badge{
		ID:       "corrupted_bonus",
		Name:     "Corrupted bonus",
		Category: models.BadgeCategorySpecial,
		Criteria: models.BadgeCriteria{
			{Kind: models.CriterionAction, Action: ActionChatMessage},
			{Kind: models.CriterionStreakDays, Target: 1},
		},
		Points: -5,
	}, 1))

	result, err := f.service.RecordAction(context.Background(), 1, ActionChatMessage, nil)
	require.NoError(t, err)

	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, "corrupted_bonus", result.NewBadges[0].ID)

	// The award stands; the rejected bonus grant leaves only the chat point.
	assert.Equal(t, 1, f.stats.rows[1].TotalPoints)
	assert.Len(t, f.badges.awards[1], 1)
}

func TestRecordActionQuizScoreTiers(t *testing.T) {
	cases := []struct {
		name   string
		score  *float64
		points int
	}{
		{"excellent", floatPtr(95), 25},
		{"boundary ninety", floatPtr(90), 25},
		{"good", floatPtr(70), 15},
		{"below pass", floatPtr(50), 5},
		{"missing score", nil, 5},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newGamificationFixture(t)

			result, err := f.service.RecordAction(context.Background(), int64(i+1), ActionQuizCompleted, &ActionPayload{Score: tc.score})
			require.NoError(t, err)

			assert.Equal(t, tc.points, result.Points.PointsGained)
			assert.Equal(t, 1, f.stats.rows[int64(i+1)].QuizzesTaken)
		})
	}
}

func TestRecordActionUnknownActionRejected(t *testing.T) {
	f := newGamificationFixture(t)

	_, err := f.service.RecordAction(context.Background(), 1, "logged_in", nil)
	require.Error(t, err)

	assert.Equal(t, "VALIDATION_ERROR", GetServiceError(err).Type)
	assert.Empty(t, f.stats.rows)
}

func TestRecordActionStorageFailure(t *testing.T) {
	f := newGamificationFixture(t)
	f.stats.updateErr = errors.New("connection refused")

	_, err := f.service.RecordAction(context.Background(), 1, ActionTopicCompleted, nil)
	require.Error(t, err)
	assert.Equal(t, "SERVICE_UNAVAILABLE", GetServiceError(err).Type)
}

func TestRecordActionExtendsStreakAcrossDays(t *testing.T) {
	f := newGamificationFixture(t)
	ctx := context.Background()

	stats, err := f.service.EnsureInitialized(ctx, 1)
	require.NoError(t, err)
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	stats.LastActivity = &yesterday
	stats.CurrentStreak = 4
	stats.LongestStreak = 4

	result, err := f.service.RecordAction(ctx, 1, ActionChatMessage, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Streak)
	assert.Equal(t, 5, f.stats.rows[1].LongestStreak)
	assert.Equal(t, 1, result.Points.PointsGained)
}

func TestAddStudyTime(t *testing.T) {
	f := newGamificationFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.AddStudyTime(ctx, 1, 45))
	assert.Equal(t, 45, f.stats.rows[1].TotalStudyTimeMinutes)

	err := f.service.AddStudyTime(ctx, 1, 0)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", GetServiceError(err).Type)
}

func TestSeedDefaultBadgesIsIdempotent(t *testing.T) {
	f := newGamificationFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.SeedDefaultBadges(ctx))
	require.NoError(t, f.service.SeedDefaultBadges(ctx))

	assert.Len(t, f.badges.catalog, 14)
	assert.Equal(t, 1, f.badges.positions["first_topic"])
	assert.Equal(t, 14, f.badges.positions["badge_collector"])
}

func TestGetLeaderboardCachesResult(t *testing.T) {
	f := newGamificationFixture(t)
	f.stats.top = []*models.LeaderboardEntry{
		{Rank: 1, UserID: 2, Username: "ada", TotalPoints: 900, Level: 5},
		{Rank: 2, UserID: 1, Username: "alan", TotalPoints: 400, Level: 3},
	}
	ctx := context.Background()

	first, err := f.service.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, f.stats.topCalls)

	second, err := f.service.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, f.stats.topCalls, "second read must come from cache")
	assert.Equal(t, first[0].Username, second[0].Username)
}

func TestGetLeaderboardNormalizesLimit(t *testing.T) {
	f := newGamificationFixture(t)

	_, err := f.service.GetLeaderboard(context.Background(), 0)
	require.NoError(t, err)

	_, ok := f.cache.data["leaderboard:top:10"]
	assert.True(t, ok, "zero limit must fall back to the default of 10")
}

func TestGetUserGamificationData(t *testing.T) {
	f := newGamificationFixture(t)
	f.seedCatalog(t)
	ctx := context.Background()

	_, err := f.service.RecordAction(ctx, 1, ActionTopicCompleted, nil)
	require.NoError(t, err)

	data, err := f.service.GetUserGamificationData(ctx, 1)
	require.NoError(t, err)

	require.Len(t, data.Badges, 1)
	assert.Equal(t, "first_topic", data.Badges[0].ID)
	assert.Len(t, data.RecentAchievements, 1)

	// Earned badges must not show up again in the progress list.
	for _, bp := range data.BadgeProgress {
		assert.NotEqual(t, "first_topic", bp.Badge.ID)
	}
	assert.NotEmpty(t, data.BadgeProgress)
}

func floatPtr(v float64) *float64 { return &v }
