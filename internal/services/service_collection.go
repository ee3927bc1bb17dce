// file: internal/services/service_collection.go
package services

import (
	"context"
	"fmt"
	"time"

	"quantlearn/internal/cache"
	"quantlearn/internal/config"
	"quantlearn/internal/database"
	"quantlearn/internal/repositories"

	"go.uber.org/zap"
)

// ServiceCollection wires every service with its dependencies.
type ServiceCollection struct {
	// Core services
	Auth         AuthService         `json:"-"`
	Gamification GamificationService `json:"-"`
	Learning     LearningService     `json:"-"`
	Quiz         QuizService         `json:"-"`
	Bookmark     BookmarkService     `json:"-"`
	Tutor        TutorService        `json:"-"`
	Admin        AdminService        `json:"-"`

	// Infrastructure
	Repositories *repositories.Collection `json:"-"`
	Cache        cache.Cache              `json:"-"`
	Logger       *zap.Logger              `json:"-"`
	Config       *config.Config           `json:"-"`
	DBManager    *database.Manager        `json:"-"`
}

// ServiceHealth reports the health of the collection's dependencies.
type ServiceHealth struct {
	Status       string                   `json:"status"`
	Timestamp    time.Time                `json:"timestamp"`
	Dependencies map[string]ServiceStatus `json:"dependencies"`
	Issues       []string                 `json:"issues,omitempty"`
}

// ServiceStatus is the status of one dependency.
type ServiceStatus struct {
	Name         string        `json:"name"`
	Status       string        `json:"status"` // healthy, unhealthy
	LastCheck    time.Time     `json:"last_check"`
	ResponseTime time.Duration `json:"response_time"`
	Error        string        `json:"error,omitempty"`
}

// NewServiceCollection builds the full service graph in dependency order:
// infrastructure, repositories, then services.
func NewServiceCollection(
	dbManager *database.Manager,
	cfg *config.Config,
	logger *zap.Logger,
) (*ServiceCollection, error) {
	if dbManager == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	sc := &ServiceCollection{
		DBManager: dbManager,
		Config:    cfg,
		Logger:    logger,
	}

	if err := sc.initializeInfrastructure(); err != nil {
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}
	if err := sc.initializeRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}
	sc.initializeServices()

	logger.Info("Service collection initialized successfully")
	return sc, nil
}

// initializeInfrastructure sets up the cache backend.
func (sc *ServiceCollection) initializeInfrastructure() error {
	c, err := cache.NewCache(&sc.Config.Cache, sc.Logger)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	sc.Cache = c
	return nil
}

// initializeRepositories sets up the repository layer.
func (sc *ServiceCollection) initializeRepositories() error {
	repos, err := repositories.NewCollection(sc.DBManager, sc.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository collection: %w", err)
	}
	sc.Repositories = repos
	return nil
}

// initializeServices wires the service layer. Gamification comes first
// because auth, learning, quiz and tutor all feed events into it.
func (sc *ServiceCollection) initializeServices() {
	sc.Gamification = NewGamificationService(
		sc.Repositories.Stats,
		sc.Repositories.Badge,
		sc.Repositories.Quiz,
		sc.Cache,
		&sc.Config.Cache,
		sc.Logger,
	)

	sc.Auth = NewAuthService(
		sc.Repositories.User,
		sc.Gamification,
		&sc.Config.Auth,
		sc.Logger,
	)

	sc.Learning = NewLearningService(
		sc.Repositories.Catalog,
		sc.Repositories.Progress,
		sc.Gamification,
		sc.Logger,
	)

	sc.Quiz = NewQuizService(
		sc.Repositories.Quiz,
		sc.Repositories.Catalog,
		sc.Gamification,
		sc.Logger,
	)

	sc.Bookmark = NewBookmarkService(
		sc.Repositories.Bookmark,
		sc.Repositories.Note,
		sc.Repositories.Catalog,
		sc.Logger,
	)

	sc.Tutor = NewTutorService(&sc.Config.Tutor, sc.Gamification, sc.Logger)

	sc.Admin = NewAdminService(
		sc.Repositories.User,
		sc.Repositories.Catalog,
		sc.Repositories.Quiz,
		sc.Repositories.Badge,
		sc.Logger,
	)
}

// ===============================
// HEALTH AND LIFECYCLE
// ===============================

// HealthCheck probes the database and cache.
func (sc *ServiceCollection) HealthCheck(ctx context.Context) (*ServiceHealth, error) {
	health := &ServiceHealth{
		Status:       "healthy",
		Timestamp:    time.Now(),
		Dependencies: make(map[string]ServiceStatus),
	}

	dbStatus := sc.checkDatabaseHealth(ctx)
	health.Dependencies["database"] = dbStatus
	if dbStatus.Status != "healthy" {
		health.Status = "degraded"
		health.Issues = append(health.Issues, fmt.Sprintf("Database: %s", dbStatus.Error))
	}

	cacheStatus := sc.checkCacheHealth(ctx)
	health.Dependencies["cache"] = cacheStatus
	if cacheStatus.Status != "healthy" {
		health.Status = "degraded"
		health.Issues = append(health.Issues, fmt.Sprintf("Cache: %s", cacheStatus.Error))
	}

	return health, nil
}

func (sc *ServiceCollection) checkDatabaseHealth(ctx context.Context) ServiceStatus {
	start := time.Now()
	status := ServiceStatus{Name: "database", Status: "healthy", LastCheck: start}

	if err := sc.DBManager.DB().PingContext(ctx); err != nil {
		status.Status = "unhealthy"
		status.Error = err.Error()
	}
	status.ResponseTime = time.Since(start)
	return status
}

func (sc *ServiceCollection) checkCacheHealth(ctx context.Context) ServiceStatus {
	start := time.Now()
	status := ServiceStatus{Name: "cache", Status: "healthy", LastCheck: start}

	if err := sc.Cache.Health(ctx); err != nil {
		status.Status = "unhealthy"
		status.Error = err.Error()
	}
	status.ResponseTime = time.Since(start)
	return status
}

// Shutdown closes the cache and database connections.
func (sc *ServiceCollection) Shutdown(ctx context.Context) error {
	sc.Logger.Info("Shutting down service collection")

	var shutdownErrors []error
	if sc.Cache != nil {
		if err := sc.Cache.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("cache close: %w", err))
		}
	}
	if sc.DBManager != nil {
		if err := sc.DBManager.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		sc.Logger.Error("Errors occurred during shutdown",
			zap.Int("error_count", len(shutdownErrors)),
		)
		return fmt.Errorf("shutdown completed with %d errors", len(shutdownErrors))
	}

	sc.Logger.Info("Service collection shutdown completed successfully")
	return nil
}
