// file: internal/repositories/catalog_repository.go
package repositories

import (
	"context"
	"fmt"

	"quantlearn/internal/database"
	"quantlearn/internal/models"

	"go.uber.org/zap"
)

// catalogRepository implements CatalogRepository on Postgres.
type catalogRepository struct {
	*BaseRepository
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *database.Manager, logger *zap.Logger) CatalogRepository {
	return &catalogRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// ListSections returns the full catalog with topics nested under their
// sections, both in display order.
func (r *catalogRepository) ListSections(ctx context.Context) ([]*models.Section, error) {
	query := `
		SELECT
			s.id, s.title, s.position,
			t.slug, t.section_id, t.title, t.position
		FROM sections s
		JOIN topics t ON t.section_id = s.id
		ORDER BY s.position ASC, t.position ASC`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	var sections []*models.Section
	index := make(map[string]*models.Section)

	for rows.Next() {
		var section models.Section
		var topic models.Topic
		if err := rows.Scan(
			&section.ID, &section.Title, &section.Position,
			&topic.Slug, &topic.SectionID, &topic.Title, &topic.Position,
		); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}

		current, ok := index[section.ID]
		if !ok {
			current = &section
			index[section.ID] = current
			sections = append(sections, current)
		}
		current.Topics = append(current.Topics, topic)
	}
	return sections, rows.Err()
}

// GetTopicBySlug retrieves one topic.
func (r *catalogRepository) GetTopicBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	query := `
		SELECT slug, section_id, title, position
		FROM topics
		WHERE slug = $1`

	var topic models.Topic
	err := r.QueryRowContext(ctx, query, slug).Scan(
		&topic.Slug, &topic.SectionID, &topic.Title, &topic.Position,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	return &topic, nil
}

// CountTopics returns the catalog topic count.
func (r *catalogRepository) CountTopics(ctx context.Context) (int, error) {
	var count int
	if err := r.QueryRowContext(ctx, `SELECT COUNT(*) FROM topics`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count topics: %w", err)
	}
	return count, nil
}
