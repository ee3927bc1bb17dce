// file: internal/repositories/progress_repository.go
package repositories

import (
	"context"
	"fmt"

	"quantlearn/internal/database"
	"quantlearn/internal/models"

	"go.uber.org/zap"
)

// progressRepository implements ProgressRepository on Postgres.
type progressRepository struct {
	*BaseRepository
}

// NewProgressRepository creates a new topic progress repository.
func NewProgressRepository(db *database.Manager, logger *zap.Logger) ProgressRepository {
	return &progressRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// GetByUserAndTopic retrieves one progress row.
func (r *progressRepository) GetByUserAndTopic(ctx context.Context, userID int64, topicSlug string) (*models.TopicProgress, error) {
	query := `
		SELECT id, user_id, topic_slug, status, completed_at, created_at, updated_at
		FROM topic_progress
		WHERE user_id = $1 AND topic_slug = $2`

	var progress models.TopicProgress
	err := r.QueryRowContext(ctx, query, userID, topicSlug).Scan(
		&progress.ID, &progress.UserID, &progress.TopicSlug, &progress.Status,
		&progress.CompletedAt, &progress.CreatedAt, &progress.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic progress: %w", err)
	}
	return &progress, nil
}

// ListByUser returns all progress rows for a user, most recent first.
func (r *progressRepository) ListByUser(ctx context.Context, userID int64) ([]*models.TopicProgress, error) {
	query := `
		SELECT id, user_id, topic_slug, status, completed_at, created_at, updated_at
		FROM topic_progress
		WHERE user_id = $1
		ORDER BY updated_at DESC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list topic progress: %w", err)
	}
	defer rows.Close()

	var progresses []*models.TopicProgress
	for rows.Next() {
		var progress models.TopicProgress
		if err := rows.Scan(
			&progress.ID, &progress.UserID, &progress.TopicSlug, &progress.Status,
			&progress.CompletedAt, &progress.CreatedAt, &progress.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan topic progress row: %w", err)
		}
		progresses = append(progresses, &progress)
	}
	return progresses, rows.Err()
}

// MarkCompleted upserts the row to completed status. The xmax check
// distinguishes a fresh insert or first completion from a repeat, so
// completing a topic twice never double-counts.
func (r *progressRepository) MarkCompleted(ctx context.Context, userID int64, topicSlug string) (bool, error) {
	query := `
		INSERT INTO topic_progress (user_id, topic_slug, status, completed_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, topic_slug) DO UPDATE SET
			status = EXCLUDED.status,
			completed_at = COALESCE(topic_progress.completed_at, EXCLUDED.completed_at),
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted, (completed_at = NOW()) AS first_completion`

	var inserted, firstCompletion bool
	err := r.QueryRowContext(ctx, query, userID, topicSlug, models.TopicStatusCompleted).
		Scan(&inserted, &firstCompletion)
	if err != nil {
		return false, fmt.Errorf("failed to mark topic completed: %w", err)
	}

	newlyCompleted := inserted || firstCompletion
	if newlyCompleted {
		r.GetLogger().Info("Topic completed",
			zap.Int64("user_id", userID),
			zap.String("topic_slug", topicSlug),
		)
	}
	return newlyCompleted, nil
}

// CountCompleted returns how many topics the user has completed.
func (r *progressRepository) CountCompleted(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM topic_progress WHERE user_id = $1 AND status = $2`,
		userID, models.TopicStatusCompleted,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed topics: %w", err)
	}
	return count, nil
}
