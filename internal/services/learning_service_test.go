// file: internal/services/learning_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"quantlearn/internal/config"
	"quantlearn/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type learningFixture struct {
	service  LearningService
	catalog  *fakeCatalogRepo
	progress *fakeProgressRepo
	stats    *fakeStatsRepo
}

func newLearningFixture(t *testing.T) *learningFixture {
	t.Helper()
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	catalog := newFakeCatalogRepo("percentages", "ratios", "averages")
	progress := newFakeProgressRepo()
	stats := newFakeStatsRepo()
	gamification := NewGamificationService(
		stats, newFakeBadgeRepo(), newFakeQuizRepo(), newMemoryCache(),
		&config.CacheConfig{LeaderboardTTL: time.Minute}, logger,
	)

	return &learningFixture{
		service:  NewLearningService(catalog, progress, gamification, logger),
		catalog:  catalog,
		progress: progress,
		stats:    stats,
	}
}

func TestGetTopicUnknownSlug(t *testing.T) {
	f := newLearningFixture(t)

	_, err := f.service.GetTopic(context.Background(), "calculus")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", GetServiceError(err).Type)
}

func TestGetTopicKnownSlug(t *testing.T) {
	f := newLearningFixture(t)

	topic, err := f.service.GetTopic(context.Background(), "ratios")
	require.NoError(t, err)
	assert.Equal(t, "ratios", topic.Slug)
}

func TestCompleteTopicFirstTimeRewards(t *testing.T) {
	f := newLearningFixture(t)

	result, err := f.service.CompleteTopic(context.Background(), 1, "percentages")
	require.NoError(t, err)

	assert.True(t, result.NewlyCompleted)
	require.NotNil(t, result.Gamification)
	assert.Equal(t, 10, result.Gamification.Points.PointsGained)
	assert.Equal(t, 1, f.stats.rows[1].TopicsCompleted)
}

func TestCompleteTopicRepeatIsInert(t *testing.T) {
	f := newLearningFixture(t)
	ctx := context.Background()

	_, err := f.service.CompleteTopic(ctx, 1, "percentages")
	require.NoError(t, err)

	result, err := f.service.CompleteTopic(ctx, 1, "percentages")
	require.NoError(t, err)

	assert.False(t, result.NewlyCompleted)
	assert.Nil(t, result.Gamification)
	// No second reward, no second counter increment.
	assert.Equal(t, 1, f.stats.rows[1].TopicsCompleted)
	assert.Equal(t, 10, f.stats.rows[1].TotalPoints)
}

func TestCompleteTopicUnknownTopic(t *testing.T) {
	f := newLearningFixture(t)

	_, err := f.service.CompleteTopic(context.Background(), 1, "calculus")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", GetServiceError(err).Type)
	assert.Empty(t, f.progress.rows)
}

func TestGetUserProgress(t *testing.T) {
	f := newLearningFixture(t)
	ctx := context.Background()

	_, err := f.service.CompleteTopic(ctx, 1, "percentages")
	require.NoError(t, err)
	_, err = f.service.CompleteTopic(ctx, 1, "ratios")
	require.NoError(t, err)

	summary, err := f.service.GetUserProgress(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TopicsCompleted)
	assert.Equal(t, 3, summary.TotalTopics)
	assert.InDelta(t, 66.67, summary.PercentComplete, 0.01)
	assert.Len(t, summary.Topics, 2)
}

func TestGetUserProgressEmpty(t *testing.T) {
	f := newLearningFixture(t)

	summary, err := f.service.GetUserProgress(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TopicsCompleted)
	assert.Equal(t, 0.0, summary.PercentComplete)
}

func TestGetSections(t *testing.T) {
	f := newLearningFixture(t)
	f.catalog.sections = []*models.Section{
		{ID: "arithmetic", Title: "Arithmetic", Position: 1},
		{ID: "algebra", Title: "Algebra", Position: 2},
	}

	sections, err := f.service.GetSections(context.Background())
	require.NoError(t, err)
	assert.Len(t, sections, 2)
}
