// file: internal/repositories/note_repository.go
package repositories

import (
	"context"
	"fmt"

	"quantlearn/internal/database"
	"quantlearn/internal/models"

	"go.uber.org/zap"
)

// noteRepository implements NoteRepository on Postgres.
type noteRepository struct {
	*BaseRepository
}

// NewNoteRepository creates a new note repository.
func NewNoteRepository(db *database.Manager, logger *zap.Logger) NoteRepository {
	return &noteRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create inserts a note.
func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	query := `
		INSERT INTO notes (id, user_id, topic_slug, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		note.ID, note.UserID, note.TopicSlug, note.Content,
	).Scan(&note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// GetByID retrieves one note.
func (r *noteRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	query := `
		SELECT id, user_id, topic_slug, content, created_at, updated_at
		FROM notes
		WHERE id = $1`

	var note models.Note
	err := r.QueryRowContext(ctx, query, id).Scan(
		&note.ID, &note.UserID, &note.TopicSlug, &note.Content,
		&note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return &note, nil
}

// ListByUser returns a user's notes, newest first.
func (r *noteRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Note, error) {
	query := `
		SELECT id, user_id, topic_slug, content, created_at, updated_at
		FROM notes
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(
			&note.ID, &note.UserID, &note.TopicSlug, &note.Content,
			&note.CreatedAt, &note.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		notes = append(notes, &note)
	}
	return notes, rows.Err()
}

// Update rewrites a note's content. Ownership is enforced in the query.
func (r *noteRepository) Update(ctx context.Context, note *models.Note) error {
	query := `
		UPDATE notes
		SET content = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	err := r.QueryRowContext(ctx, query, note.ID, note.UserID, note.Content).
		Scan(&note.UpdatedAt)
	if err != nil {
		if r.IsNotFound(err) {
			return fmt.Errorf("note %s not found", note.ID)
		}
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

// Delete removes a note owned by the given user.
func (r *noteRepository) Delete(ctx context.Context, id string, userID int64) error {
	result, err := r.ExecContext(ctx,
		`DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("note %s not found", id)
	}
	return nil
}
