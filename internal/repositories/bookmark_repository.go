// file: internal/repositories/bookmark_repository.go
package repositories

import (
	"context"
	"fmt"

	"quantlearn/internal/database"
	"quantlearn/internal/models"

	"go.uber.org/zap"
)

// bookmarkRepository implements BookmarkRepository on Postgres.
type bookmarkRepository struct {
	*BaseRepository
}

// NewBookmarkRepository creates a new bookmark repository.
func NewBookmarkRepository(db *database.Manager, logger *zap.Logger) BookmarkRepository {
	return &bookmarkRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create inserts a bookmark. The unique constraint on (user_id, topic_slug)
// rejects duplicates.
func (r *bookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	query := `
		INSERT INTO bookmarks (id, user_id, topic_slug, title)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.QueryRowContext(
		ctx, query,
		bookmark.ID, bookmark.UserID, bookmark.TopicSlug, bookmark.Title,
	).Scan(&bookmark.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bookmark: %w", err)
	}
	return nil
}

// GetByID retrieves one bookmark.
func (r *bookmarkRepository) GetByID(ctx context.Context, id string) (*models.Bookmark, error) {
	query := `
		SELECT id, user_id, topic_slug, title, created_at
		FROM bookmarks
		WHERE id = $1`

	var bookmark models.Bookmark
	err := r.QueryRowContext(ctx, query, id).Scan(
		&bookmark.ID, &bookmark.UserID, &bookmark.TopicSlug,
		&bookmark.Title, &bookmark.CreatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}
	return &bookmark, nil
}

// ListByUser returns a user's bookmarks, newest first.
func (r *bookmarkRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Bookmark, error) {
	query := `
		SELECT id, user_id, topic_slug, title, created_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []*models.Bookmark
	for rows.Next() {
		var bookmark models.Bookmark
		if err := rows.Scan(
			&bookmark.ID, &bookmark.UserID, &bookmark.TopicSlug,
			&bookmark.Title, &bookmark.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark row: %w", err)
		}
		bookmarks = append(bookmarks, &bookmark)
	}
	return bookmarks, rows.Err()
}

// Delete removes a bookmark owned by the given user.
func (r *bookmarkRepository) Delete(ctx context.Context, id string, userID int64) error {
	result, err := r.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("bookmark %s not found", id)
	}
	return nil
}
