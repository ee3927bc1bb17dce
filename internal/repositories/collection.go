// file: internal/repositories/collection.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"quantlearn/internal/database"

	"go.uber.org/zap"
)

// Collection holds all repository instances for dependency injection.
type Collection struct {
	User     UserRepository
	Stats    StatsRepository
	Badge    BadgeRepository
	Catalog  CatalogRepository
	Progress ProgressRepository
	Quiz     QuizRepository
	Bookmark BookmarkRepository
	Note     NoteRepository

	db     *database.Manager
	logger *zap.Logger
}

// NewCollection creates a repository collection with all dependencies wired.
func NewCollection(db *database.Manager, logger *zap.Logger) (*Collection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	collection := &Collection{
		db:     db,
		logger: logger,
	}

	collection.User = NewUserRepository(db, logger)
	collection.Stats = NewStatsRepository(db, logger)
	collection.Badge = NewBadgeRepository(db, logger)
	collection.Catalog = NewCatalogRepository(db, logger)
	collection.Progress = NewProgressRepository(db, logger)
	collection.Quiz = NewQuizRepository(db, logger)
	collection.Bookmark = NewBookmarkRepository(db, logger)
	collection.Note = NewNoteRepository(db, logger)

	logger.Info("Repository collection initialized")
	return collection, nil
}

// WithTransaction runs fn inside a database transaction, rolling back on
// error or panic.
func (c *Collection) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed: %v, rollback failed: %w", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

// HealthCheck verifies database connectivity through the collection.
func (c *Collection) HealthCheck(ctx context.Context) error {
	status := c.db.Health(ctx)
	if status.Status != database.StatusHealthy {
		return fmt.Errorf("database unhealthy: %v", status.Errors)
	}
	return nil
}

// GetDB exposes the database manager for callers needing raw access.
func (c *Collection) GetDB() *database.Manager {
	return c.db
}
