// file: internal/repositories/badge_repository.go
package repositories

import (
	"context"
	"fmt"

	"quantlearn/internal/database"
	"quantlearn/internal/models"

	"go.uber.org/zap"
)

// badgeRepository implements BadgeRepository on Postgres.
type badgeRepository struct {
	*BaseRepository
}

// NewBadgeRepository creates a new badge repository.
func NewBadgeRepository(db *database.Manager, logger *zap.Logger) BadgeRepository {
	return &badgeRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// ===============================
// CATALOG
// ===============================

// GetAll returns the badge catalog in its fixed display order.
func (r *badgeRepository) GetAll(ctx context.Context) ([]*models.Badge, error) {
	query := `
		SELECT id, name, description, icon, category, criteria, rarity, points, created_at
		FROM badges
		ORDER BY position ASC, id ASC`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer rows.Close()

	var badges []*models.Badge
	for rows.Next() {
		var badge models.Badge
		if err := rows.Scan(
			&badge.ID, &badge.Name, &badge.Description, &badge.Icon,
			&badge.Category, &badge.Criteria, &badge.Rarity, &badge.Points,
			&badge.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan badge row: %w", err)
		}
		badges = append(badges, &badge)
	}
	return badges, rows.Err()
}

// GetByID retrieves one catalog badge.
func (r *badgeRepository) GetByID(ctx context.Context, id string) (*models.Badge, error) {
	query := `
		SELECT id, name, description, icon, category, criteria, rarity, points, created_at
		FROM badges
		WHERE id = $1`

	var badge models.Badge
	err := r.QueryRowContext(ctx, query, id).Scan(
		&badge.ID, &badge.Name, &badge.Description, &badge.Icon,
		&badge.Category, &badge.Criteria, &badge.Rarity, &badge.Points,
		&badge.CreatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get badge: %w", err)
	}
	return &badge, nil
}

// Upsert inserts or refreshes a catalog badge at the given position. Used by
// catalog seeding on startup so definition changes roll out without a
// migration.
func (r *badgeRepository) Upsert(ctx context.Context, badge *models.Badge, position int) error {
	query := `
		INSERT INTO badges (id, name, description, icon, category, criteria, rarity, points, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			icon = EXCLUDED.icon,
			category = EXCLUDED.category,
			criteria = EXCLUDED.criteria,
			rarity = EXCLUDED.rarity,
			points = EXCLUDED.points,
			position = EXCLUDED.position`

	_, err := r.ExecContext(
		ctx, query,
		badge.ID, badge.Name, badge.Description, badge.Icon,
		badge.Category, badge.Criteria, badge.Rarity, badge.Points, position,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert badge %s: %w", badge.ID, err)
	}
	return nil
}

// Count returns the catalog size.
func (r *badgeRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.QueryRowContext(ctx, `SELECT COUNT(*) FROM badges`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count badges: %w", err)
	}
	return count, nil
}

// ===============================
// USER AWARDS
// ===============================

// GetUserBadges returns the badges a user has earned, newest first.
func (r *badgeRepository) GetUserBadges(ctx context.Context, userID int64) ([]*models.EarnedBadge, error) {
	query := `
		SELECT
			b.id, b.name, b.description, b.icon, b.category,
			b.criteria, b.rarity, b.points, b.created_at,
			ub.earned_at
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.earned_at DESC, b.id ASC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user badges: %w", err)
	}
	defer rows.Close()

	var earned []*models.EarnedBadge
	for rows.Next() {
		var eb models.EarnedBadge
		if err := rows.Scan(
			&eb.ID, &eb.Name, &eb.Description, &eb.Icon, &eb.Category,
			&eb.Criteria, &eb.Rarity, &eb.Points, &eb.CreatedAt,
			&eb.EarnedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan earned badge row: %w", err)
		}
		earned = append(earned, &eb)
	}
	return earned, rows.Err()
}

// InsertUserBadge records an award. The unique constraint on
// (user_id, badge_id) rejects double awards.
func (r *badgeRepository) InsertUserBadge(ctx context.Context, userBadge *models.UserBadge) error {
	query := `
		INSERT INTO user_badges (id, user_id, badge_id, progress)
		VALUES ($1, $2, $3, $4)
		RETURNING earned_at`

	err := r.QueryRowContext(
		ctx, query,
		userBadge.ID, userBadge.UserID, userBadge.BadgeID, userBadge.Progress,
	).Scan(&userBadge.EarnedAt)
	if err != nil {
		return fmt.Errorf("failed to award badge %s to user %d: %w",
			userBadge.BadgeID, userBadge.UserID, err)
	}

	r.GetLogger().Info("Badge awarded",
		zap.Int64("user_id", userBadge.UserID),
		zap.String("badge_id", userBadge.BadgeID),
	)
	return nil
}

// CountUserBadges returns how many badges the user has earned.
func (r *badgeRepository) CountUserBadges(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_badges WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count user badges: %w", err)
	}
	return count, nil
}
