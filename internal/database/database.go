package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"quantlearn/internal/config"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// DB is the global database manager instance.
var DB *Manager

var initMutex sync.Mutex

// InitDB creates the manager, runs migrations and waits for the database
// to report healthy before returning.
func InitDB(cfg *config.Config, logger *zap.Logger) error {
	initMutex.Lock()
	defer initMutex.Unlock()

	if DB != nil {
		logger.Info("Database manager already initialized")
		return nil
	}

	applyPoolDefaults(&cfg.Database, cfg.Server.Environment)

	manager, err := NewManager(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	migrationsPath := resolveMigrationsPath(cfg.Database.MigrationsPath)
	logger.Info("Running database migrations", zap.String("path", migrationsPath))
	if err := migrateWithRetry(manager, migrationsPath, logger, 3); err != nil {
		manager.Close()
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := manager.health.WaitForHealthy(ctx, 30*time.Second); err != nil {
		manager.Close()
		return fmt.Errorf("database failed to become healthy: %w", err)
	}

	manager.health.StartMonitoring()
	DB = manager

	stats := manager.Stats()
	logger.Info("Database initialized",
		zap.String("migrations_path", migrationsPath),
		zap.Int("max_open_connections", stats.MaxOpenConnections),
		zap.Int("open_connections", stats.OpenConnections),
	)
	return nil
}

// applyPoolDefaults fills in environment-appropriate pool settings for any
// value the config left at zero.
func applyPoolDefaults(cfg *config.DatabaseConfig, environment string) {
	switch environment {
	case "production":
		if cfg.MaxOpenConns == 0 {
			cfg.MaxOpenConns = 50
		}
		if cfg.MaxIdleConns == 0 {
			cfg.MaxIdleConns = 20
		}
		if cfg.ConnMaxLifetime == 0 {
			cfg.ConnMaxLifetime = 15 * time.Minute
		}
		if cfg.SlowQueryThreshold == 0 {
			cfg.SlowQueryThreshold = 200 * time.Millisecond
		}
	default:
		if cfg.MaxOpenConns == 0 {
			cfg.MaxOpenConns = 10
		}
		if cfg.MaxIdleConns == 0 {
			cfg.MaxIdleConns = 5
		}
		if cfg.ConnMaxLifetime == 0 {
			cfg.ConnMaxLifetime = 5 * time.Minute
		}
		if cfg.SlowQueryThreshold == 0 {
			cfg.SlowQueryThreshold = 50 * time.Millisecond
		}
	}
	if cfg.MaxIdleConns > cfg.MaxOpenConns {
		cfg.MaxIdleConns = cfg.MaxOpenConns
	}
}

func migrateWithRetry(manager *Manager, migrationsPath string, logger *zap.Logger, maxRetries int) error {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := manager.Migrate(migrationsPath); err != nil {
			lastErr = err
			if attempt < maxRetries {
				waitTime := time.Duration(attempt) * time.Second
				logger.Warn("Migration attempt failed, retrying",
					zap.Error(err),
					zap.Int("attempt", attempt),
					zap.Duration("retry_in", waitTime))
				time.Sleep(waitTime)
				continue
			}
		} else {
			return nil
		}
	}
	return fmt.Errorf("migrations failed after %d attempts: %w", maxRetries, lastErr)
}

func resolveMigrationsPath(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}
	for _, path := range []string{"./migrations", "../migrations", "../../migrations"} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return "./migrations"
}

// GetDB returns the global manager.
func GetDB() *Manager {
	return DB
}

// Close shuts down the global manager.
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// Health runs a health check against the global manager.
func Health(ctx context.Context) *HealthStatus {
	if DB == nil {
		return &HealthStatus{
			Status:    StatusUnhealthy,
			Timestamp: time.Now(),
			Errors:    []string{"database not initialized"},
			Details:   make(map[string]interface{}),
		}
	}
	return DB.Health(ctx)
}

// GetMetrics returns the global manager's metrics snapshot.
func GetMetrics() *MetricsSnapshot {
	if DB == nil {
		return &MetricsSnapshot{Timestamp: time.Now()}
	}
	return DB.Metrics()
}

// ExecuteTransaction runs fn inside a transaction, rolling back on error or panic.
func ExecuteTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	tx, err := DB.BeginTx(ctx, nil)
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
