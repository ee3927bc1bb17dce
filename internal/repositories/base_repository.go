// file: internal/repositories/base_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quantlearn/internal/database"

	"go.uber.org/zap"
)

// BaseRepository provides the shared query plumbing for all repositories:
// context-aware execution, slow-query logging and transaction helpers.
type BaseRepository struct {
	db     *database.Manager
	logger *zap.Logger
}

// NewBaseRepository creates a base repository bound to the database manager.
func NewBaseRepository(db *database.Manager, logger *zap.Logger) *BaseRepository {
	return &BaseRepository{
		db:     db,
		logger: logger,
	}
}

// ===============================
// CORE DATABASE OPERATIONS
// ===============================

// ExecContext executes a statement with timing via the database manager.
func (r *BaseRepository) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, args...)
	r.logSlow(query, time.Since(start))
	return result, err
}

// QueryContext runs a query returning multiple rows.
func (r *BaseRepository) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	r.logSlow(query, time.Since(start))
	return rows, err
}

// QueryRowContext runs a query expected to return at most one row.
func (r *BaseRepository) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return r.db.QueryRowContext(ctx, query, args...)
}

func (r *BaseRepository) logSlow(query string, duration time.Duration) {
	if duration <= 100*time.Millisecond {
		return
	}
	r.logger.Warn("Slow repository query",
		zap.String("query", truncateQuery(query, 100)),
		zap.Duration("duration", duration),
	)
}

// ===============================
// TRANSACTIONS
// ===============================

// WithTransaction runs fn inside a transaction, rolling back on error or panic.
func (r *BaseRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
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

// ===============================
// HELPERS
// ===============================

// IsNotFound reports whether err means no rows matched.
func (r *BaseRepository) IsNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// NormalizeLimit clamps a caller-supplied limit into [1, max], applying def
// when the caller passed zero or a negative value.
func NormalizeLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// GetDB exposes the underlying manager for repositories that need it.
func (r *BaseRepository) GetDB() *database.Manager {
	return r.db
}

// GetLogger exposes the repository logger.
func (r *BaseRepository) GetLogger() *zap.Logger {
	return r.logger
}

func truncateQuery(query string, maxLen int) string {
	if len(query) <= maxLen {
		return query
	}
	return query[:maxLen] + "..."
}
