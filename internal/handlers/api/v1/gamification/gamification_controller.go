// ===============================
// FILE: internal/handlers/api/v1/gamification/gamification_controller.go
// ===============================

package gamification

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"quantlearn/internal/middleware"
	"quantlearn/internal/response"
	"quantlearn/internal/services"

	"go.uber.org/zap"
)

// GamificationController exposes points, levels, streaks, badges and the
// leaderboard.
type GamificationController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewGamificationController creates a new gamification controller
func NewGamificationController(
	serviceCollection *services.ServiceCollection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *GamificationController {
	return &GamificationController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// ===============================
// STATS ENDPOINTS
// ===============================

// GetStats returns the caller's raw stats row - GET /api/v1/gamification/stats
func (c *GamificationController) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	userID := middleware.GetUserID(r.Context())
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "gamification_stats"),
		zap.Int64("user_id", userID),
	)

	stats, err := c.serviceCollection.Gamification.GetUserStats(ctx, userID)
	if err != nil {
		logger.Warn("Failed to load user stats", zap.Error(err))
		c.handleServiceError(w, r, err, "gamification_stats")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, stats)
}

// GetData returns the full gamification view - GET /api/v1/gamification/data
func (c *GamificationController) GetData(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	userID := middleware.GetUserID(r.Context())
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "gamification_data"),
		zap.Int64("user_id", userID),
	)

	data, err := c.serviceCollection.Gamification.GetUserGamificationData(ctx, userID)
	if err != nil {
		logger.Warn("Failed to load gamification data", zap.Error(err))
		c.handleServiceError(w, r, err, "gamification_data")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, data)
}

// GetBadges returns the badge catalog - GET /api/v1/gamification/badges
func (c *GamificationController) GetBadges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", "badge_catalog"))

	badges, err := c.serviceCollection.Gamification.GetBadgeCatalog(ctx)
	if err != nil {
		logger.Warn("Failed to load badge catalog", zap.Error(err))
		c.handleServiceError(w, r, err, "badge_catalog")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"badges": badges,
		"count":  len(badges),
	})
}

// GetLeaderboard returns the points leaderboard - GET /api/v1/leaderboard
func (c *GamificationController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", "leaderboard"))

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			c.handleServiceError(w, r, services.NewValidationError("Invalid limit parameter", err), "leaderboard")
			return
		}
		limit = parsed
	}

	entries, err := c.serviceCollection.Gamification.GetLeaderboard(ctx, limit)
	if err != nil {
		logger.Warn("Failed to load leaderboard", zap.Error(err))
		c.handleServiceError(w, r, err, "leaderboard")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"leaderboard": entries,
		"count":       len(entries),
	})
}

// handleServiceError converts service errors to proper HTTP responses
func (c *GamificationController) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	serviceErr := services.GetServiceError(err)

	c.logger.Debug("Gamification service error",
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("error_type", serviceErr.Type),
		zap.String("path", r.URL.Path),
	)

	c.responseBuilder.WriteError(w, r, serviceErr)
}
