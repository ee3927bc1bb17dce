// @title           QuantLearn API
// @version         1.0.0
// @description     Quantitative aptitude learning platform with gamified progress tracking

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8000
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quantlearn/internal/config"
	"quantlearn/internal/database"
	"quantlearn/internal/middleware"
	"quantlearn/internal/response"
	"quantlearn/internal/router"
	"quantlearn/internal/services"

	"go.uber.org/zap"
)

func main() {
	logger, err := initLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	logger.Info("Starting QuantLearn application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize database and run migrations
	if err := database.InitDB(cfg, logger); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	dbManager := database.GetDB()
	if dbManager == nil {
		logger.Fatal("Database connection is not initialized")
	}

	healthCtx, healthCancel := context.WithTimeout(context.Background(), 10*time.Second)
	healthStatus := database.Health(healthCtx)
	healthCancel()
	if healthStatus.Status != database.StatusHealthy {
		logger.Fatal("Database is not healthy",
			zap.String("status", healthStatus.Status),
			zap.Strings("errors", healthStatus.Errors),
		)
	}
	logger.Info("Database health check passed", zap.String("status", healthStatus.Status))

	// Initialize services
	serviceCollection, err := services.NewServiceCollection(dbManager, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	// The badge catalog must exist before any action can award badges
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := serviceCollection.Gamification.SeedDefaultBadges(seedCtx); err != nil {
		seedCancel()
		logger.Fatal("Failed to seed badge catalog", zap.Error(err))
	}
	seedCancel()
	logger.Info("Badge catalog seeded")

	// Auth middleware
	authMiddleware := middleware.NewAuthMiddleware(
		middleware.DefaultAuthConfig(),
		serviceCollection.Cache,
		serviceCollection.Auth,
		logger,
	)

	// Response builder
	responseConfig := response.DefaultConfig()
	responseConfig.MaskInternalErrors = cfg.IsProduction()
	responseConfig.PrettyJSON = cfg.IsDevelopment()
	responseBuilder := response.NewBuilder(responseConfig, logger)

	handler := router.SetupRouter(serviceCollection, authMiddleware, responseBuilder, cfg, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown setup
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server",
			zap.String("address", server.Addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Application started successfully",
		zap.String("url", fmt.Sprintf("http://localhost:%s", cfg.Server.Port)),
		zap.String("health_check", "/health"),
		zap.String("api_base", "/api/v1"),
	)

	<-quit
	logger.Info("Shutting down application...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	} else {
		logger.Info("Server shutdown completed")
	}

	// Closes the cache and database connections
	if err := serviceCollection.Shutdown(shutdownCtx); err != nil {
		logger.Error("Service shutdown completed with errors", zap.Error(err))
	}

	logger.Info("Application shutdown completed")
}

// initLogger initializes the structured logger based on environment
func initLogger() (*zap.Logger, error) {
	env := os.Getenv("GO_ENV")
	var config zap.Config

	switch env {
	case "production":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "staging":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	default:
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
