// file: internal/services/learning_service.go
package services

import (
	"context"

	"quantlearn/internal/models"
	"quantlearn/internal/repositories"

	"go.uber.org/zap"
)

// learningService implements LearningService over the catalog and progress
// repositories, delegating rewards to the gamification engine.
type learningService struct {
	catalog      repositories.CatalogRepository
	progress     repositories.ProgressRepository
	gamification GamificationService
	logger       *zap.Logger
}

// NewLearningService creates the learning content service.
func NewLearningService(
	catalog repositories.CatalogRepository,
	progress repositories.ProgressRepository,
	gamification GamificationService,
	logger *zap.Logger,
) LearningService {
	return &learningService{
		catalog:      catalog,
		progress:     progress,
		gamification: gamification,
		logger:       logger,
	}
}

// GetSections returns the study catalog.
func (s *learningService) GetSections(ctx context.Context) ([]*models.Section, error) {
	sections, err := s.catalog.ListSections(ctx)
	if err != nil {
		s.logger.Error("Failed to load sections", zap.Error(err))
		return nil, NewServiceUnavailableError("catalog unavailable")
	}
	return sections, nil
}

// GetTopic returns one topic by slug.
func (s *learningService) GetTopic(ctx context.Context, slug string) (*models.Topic, error) {
	topic, err := s.catalog.GetTopicBySlug(ctx, slug)
	if err != nil {
		s.logger.Error("Failed to load topic", zap.Error(err), zap.String("topic_slug", slug))
		return nil, NewServiceUnavailableError("catalog unavailable")
	}
	if topic == nil {
		return nil, EntityNotFoundError("topic", slug)
	}
	return topic, nil
}

// CompleteTopic marks a topic as completed for the user. Only the first
// completion triggers gamification; repeats are acknowledged but inert.
func (s *learningService) CompleteTopic(ctx context.Context, userID int64, topicSlug string) (*TopicCompletionResult, error) {
	topic, err := s.catalog.GetTopicBySlug(ctx, topicSlug)
	if err != nil {
		s.logger.Error("Failed to load topic", zap.Error(err), zap.String("topic_slug", topicSlug))
		return nil, NewServiceUnavailableError("catalog unavailable")
	}
	if topic == nil {
		return nil, EntityNotFoundError("topic", topicSlug)
	}

	newlyCompleted, err := s.progress.MarkCompleted(ctx, userID, topicSlug)
	if err != nil {
		s.logger.Error("Failed to mark topic completed", zap.Error(err),
			zap.Int64("user_id", userID), zap.String("topic_slug", topicSlug))
		return nil, NewServiceUnavailableError("progress storage unavailable")
	}

	result := &TopicCompletionResult{
		TopicSlug:      topicSlug,
		NewlyCompleted: newlyCompleted,
	}
	if !newlyCompleted {
		return result, nil
	}

	outcome, err := s.gamification.RecordAction(ctx, userID, ActionTopicCompleted, nil)
	if err != nil {
		// The completion itself is already durable; surface the reward
		// failure instead of rolling it back.
		return nil, err
	}
	result.Gamification = outcome
	return result, nil
}

// GetUserProgress summarizes the user's completion across the catalog.
func (s *learningService) GetUserProgress(ctx context.Context, userID int64) (*ProgressSummary, error) {
	topics, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list topic progress", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewServiceUnavailableError("progress storage unavailable")
	}

	completed := 0
	for _, tp := range topics {
		if tp.Status == models.TopicStatusCompleted {
			completed++
		}
	}

	total, err := s.catalog.CountTopics(ctx)
	if err != nil {
		s.logger.Error("Failed to count topics", zap.Error(err))
		return nil, NewServiceUnavailableError("catalog unavailable")
	}

	percent := 0.0
	if total > 0 {
		percent = float64(completed) / float64(total) * 100
	}

	return &ProgressSummary{
		TopicsCompleted: completed,
		TotalTopics:     total,
		PercentComplete: percent,
		Topics:          topics,
	}, nil
}
