// file: internal/repositories/stats_repository.go
package repositories

import (
	"context"
	"fmt"

	"quantlearn/internal/database"
	"quantlearn/internal/models"

	"go.uber.org/zap"
)

const statsColumns = `
	user_id, total_points, level, experience_points, experience_to_next_level,
	current_streak, longest_streak, topics_completed, quizzes_taken,
	total_study_time_minutes, last_activity, created_at, updated_at`

// statsRepository implements StatsRepository on Postgres.
type statsRepository struct {
	*BaseRepository
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *database.Manager, logger *zap.Logger) StatsRepository {
	return &statsRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// GetByUserID retrieves a user's stats row.
func (r *statsRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserStats, error) {
	query := `SELECT ` + statsColumns + ` FROM user_stats WHERE user_id = $1`

	var stats models.UserStats
	err := r.QueryRowContext(ctx, query, userID).Scan(
		&stats.UserID, &stats.TotalPoints, &stats.Level, &stats.ExperiencePoints,
		&stats.ExperienceToNextLevel,
		&stats.CurrentStreak, &stats.LongestStreak, &stats.TopicsCompleted,
		&stats.QuizzesTaken, &stats.TotalStudyTimeMinutes, &stats.LastActivity,
		&stats.CreatedAt, &stats.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return &stats, nil
}

// Create inserts a stats row from the given values.
func (r *statsRepository) Create(ctx context.Context, stats *models.UserStats) error {
	query := `
		INSERT INTO user_stats (
			user_id, total_points, level, experience_points, experience_to_next_level,
			current_streak, longest_streak, topics_completed, quizzes_taken,
			total_study_time_minutes, last_activity
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		stats.UserID, stats.TotalPoints, stats.Level, stats.ExperiencePoints,
		stats.ExperienceToNextLevel,
		stats.CurrentStreak, stats.LongestStreak, stats.TopicsCompleted,
		stats.QuizzesTaken, stats.TotalStudyTimeMinutes, stats.LastActivity,
	).Scan(&stats.CreatedAt, &stats.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user stats: %w", err)
	}
	return nil
}

// EnsureExists inserts a default stats row when missing and returns the
// current row. The insert is a no-op on conflict so concurrent callers are
// safe.
func (r *statsRepository) EnsureExists(ctx context.Context, userID int64) (*models.UserStats, error) {
	insert := `
		INSERT INTO user_stats (user_id, level)
		VALUES ($1, 1)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.ExecContext(ctx, insert, userID); err != nil {
		return nil, fmt.Errorf("failed to initialize user stats: %w", err)
	}

	stats, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, fmt.Errorf("user stats missing after initialization for user %d", userID)
	}
	return stats, nil
}

// Update writes the full stats row back.
func (r *statsRepository) Update(ctx context.Context, stats *models.UserStats) error {
	query := `
		UPDATE user_stats SET
			total_points = $2, level = $3, experience_points = $4,
			experience_to_next_level = $5,
			current_streak = $6, longest_streak = $7,
			topics_completed = $8, quizzes_taken = $9,
			total_study_time_minutes = $10, last_activity = $11,
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at`

	err := r.QueryRowContext(
		ctx, query,
		stats.UserID, stats.TotalPoints, stats.Level, stats.ExperiencePoints,
		stats.ExperienceToNextLevel,
		stats.CurrentStreak, stats.LongestStreak, stats.TopicsCompleted,
		stats.QuizzesTaken, stats.TotalStudyTimeMinutes, stats.LastActivity,
	).Scan(&stats.UpdatedAt)
	if err != nil {
		if r.IsNotFound(err) {
			return fmt.Errorf("user stats for user %d not found", stats.UserID)
		}
		return fmt.Errorf("failed to update user stats: %w", err)
	}
	return nil
}

// AddStudyTime accumulates study minutes without touching other fields.
func (r *statsRepository) AddStudyTime(ctx context.Context, userID int64, minutes int) error {
	query := `
		UPDATE user_stats
		SET total_study_time_minutes = total_study_time_minutes + $2,
		    updated_at = NOW()
		WHERE user_id = $1`

	result, err := r.ExecContext(ctx, query, userID, minutes)
	if err != nil {
		return fmt.Errorf("failed to add study time: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("user stats for user %d not found", userID)
	}
	return nil
}

// TopByPoints returns the leaderboard: total points descending, level
// descending, then user ID ascending so ties rank identically across reads.
func (r *statsRepository) TopByPoints(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	limit = NormalizeLimit(limit, 10, 100)

	query := `
		SELECT
			us.user_id, u.username, us.total_points, us.level,
			us.current_streak,
			COALESCE(ub.badges_count, 0) AS badges_count
		FROM user_stats us
		JOIN users u ON u.id = us.user_id
		LEFT JOIN (
			SELECT user_id, COUNT(*) AS badges_count
			FROM user_badges
			GROUP BY user_id
		) ub ON ub.user_id = us.user_id
		ORDER BY us.total_points DESC, us.level DESC, us.user_id ASC
		LIMIT $1`

	rows, err := r.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(
			&entry.UserID, &entry.Username, &entry.TotalPoints,
			&entry.Level, &entry.CurrentStreak, &entry.BadgesCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entry.Rank = len(entries) + 1
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
