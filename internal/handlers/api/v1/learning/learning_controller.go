// ===============================
// FILE: internal/handlers/api/v1/learning/learning_controller.go
// ===============================

package learning

import (
	"context"
	"net/http"
	"time"

	"quantlearn/internal/middleware"
	"quantlearn/internal/response"
	"quantlearn/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// LearningController serves the topic catalog and per-user progress
type LearningController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewLearningController creates a new learning controller
func NewLearningController(
	serviceCollection *services.ServiceCollection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *LearningController {
	return &LearningController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// ===============================
// CATALOG ENDPOINTS
// ===============================

// GetSections returns the full topic catalog - GET /api/v1/sections
func (c *LearningController) GetSections(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", "get_sections"))

	sections, err := c.serviceCollection.Learning.GetSections(ctx)
	if err != nil {
		logger.Warn("Failed to load sections", zap.Error(err))
		c.handleServiceError(w, r, err, "get_sections")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"sections": sections,
		"count":    len(sections),
	})
}

// GetTopic returns one topic with its content - GET /api/v1/topics/{slug}
func (c *LearningController) GetTopic(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	slug := mux.Vars(r)["slug"]
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "get_topic"),
		zap.String("topic_slug", slug),
	)

	topic, err := c.serviceCollection.Learning.GetTopic(ctx, slug)
	if err != nil {
		logger.Warn("Failed to load topic", zap.Error(err))
		c.handleServiceError(w, r, err, "get_topic")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, topic)
}

// ===============================
// PROGRESS ENDPOINTS
// ===============================

// CompleteTopic marks a topic completed - POST /api/v1/topics/{slug}/complete
func (c *LearningController) CompleteTopic(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	slug := mux.Vars(r)["slug"]
	userID := middleware.GetUserID(r.Context())
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "complete_topic"),
		zap.String("topic_slug", slug),
		zap.Int64("user_id", userID),
	)

	result, err := c.serviceCollection.Learning.CompleteTopic(ctx, userID, slug)
	if err != nil {
		logger.Warn("Topic completion failed", zap.Error(err))
		c.handleServiceError(w, r, err, "complete_topic")
		return
	}

	logger.Info("Topic completion recorded", zap.Bool("newly_completed", result.NewlyCompleted))

	c.responseBuilder.WriteSuccess(w, r, result)
}

// GetProgress returns catalog-wide progress - GET /api/v1/progress
func (c *LearningController) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	userID := middleware.GetUserID(r.Context())
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "get_progress"),
		zap.Int64("user_id", userID),
	)

	summary, err := c.serviceCollection.Learning.GetUserProgress(ctx, userID)
	if err != nil {
		logger.Warn("Failed to load progress", zap.Error(err))
		c.handleServiceError(w, r, err, "get_progress")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, summary)
}

// handleServiceError converts service errors to proper HTTP responses
func (c *LearningController) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	serviceErr := services.GetServiceError(err)

	c.logger.Debug("Learning service error",
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("error_type", serviceErr.Type),
		zap.String("path", r.URL.Path),
	)

	c.responseBuilder.WriteError(w, r, serviceErr)
}
