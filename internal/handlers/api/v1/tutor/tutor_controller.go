// ===============================
// FILE: internal/handlers/api/v1/tutor/tutor_controller.go
// ===============================

package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"quantlearn/internal/middleware"
	"quantlearn/internal/models"
	"quantlearn/internal/response"
	"quantlearn/internal/services"
	"quantlearn/internal/validation"

	"go.uber.org/zap"
)

// TutorController proxies chat turns to the AI tutor
type TutorController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewTutorController creates a new tutor controller
func NewTutorController(
	serviceCollection *services.ServiceCollection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *TutorController {
	return &TutorController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// Chat handles one tutoring exchange - POST /api/v1/tutor/chat
// The upstream completion can take a while, so the timeout here is looser
// than on the other endpoints.
func (c *TutorController) Chat(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 90*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	userID := middleware.GetUserID(r.Context())
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "tutor_chat"),
		zap.Int64("user_id", userID),
	)

	var req services.TutorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError("Invalid request body", err), "tutor_chat")
		return
	}
	req.UserID = userID

	if err := validation.ValidateStruct(&req); err != nil {
		logger.Warn("Chat validation failed", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError(err.Error(), err), "tutor_chat")
		return
	}

	reply, err := c.serviceCollection.Tutor.Chat(ctx, &req)
	if err != nil {
		logger.Warn("Tutor chat failed", zap.Error(err))
		c.handleServiceError(w, r, err, "tutor_chat")
		return
	}

	logger.Info("Tutor reply delivered",
		zap.String("model", reply.Model),
		zap.Int("messages", len(req.Messages)),
	)

	c.responseBuilder.WriteSuccess(w, r, reply)
}

// explainRequest asks the tutor to walk through one catalog topic.
type explainRequest struct {
	TopicSlug string `json:"topic_slug" validate:"required,max=100"`
	Model     string `json:"model" validate:"omitempty,max=100"`
}

// ExplainTopic asks the tutor for a walkthrough of a catalog topic -
// POST /api/v1/tutor/explain
func (c *TutorController) ExplainTopic(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 90*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	userID := middleware.GetUserID(r.Context())
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "tutor_explain"),
		zap.Int64("user_id", userID),
	)

	var req explainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError("Invalid request body", err), "tutor_explain")
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		logger.Warn("Explain validation failed", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError(err.Error(), err), "tutor_explain")
		return
	}

	// The prompt carries the catalog title, so unknown slugs fail here
	// instead of producing an off-topic answer.
	topic, err := c.serviceCollection.Learning.GetTopic(ctx, req.TopicSlug)
	if err != nil {
		c.handleServiceError(w, r, err, "tutor_explain")
		return
	}

	prompt := fmt.Sprintf(
		"Explain the topic %q to me from the ground up. Cover the key formulas, "+
			"then walk through two worked examples of increasing difficulty.",
		topic.Title,
	)
	tutorReq := &services.TutorRequest{
		UserID:   userID,
		Messages: []models.ChatMessage{{Role: models.ChatRoleUser, Content: prompt}},
		Model:    req.Model,
	}

	reply, err := c.serviceCollection.Tutor.Chat(ctx, tutorReq)
	if err != nil {
		logger.Warn("Tutor explain failed", zap.Error(err))
		c.handleServiceError(w, r, err, "tutor_explain")
		return
	}

	logger.Info("Topic explanation delivered",
		zap.String("topic_slug", topic.Slug),
		zap.String("model", reply.Model),
	)

	c.responseBuilder.WriteSuccess(w, r, reply)
}

// handleServiceError converts service errors to proper HTTP responses
func (c *TutorController) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	serviceErr := services.GetServiceError(err)

	c.logger.Debug("Tutor service error",
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("error_type", serviceErr.Type),
		zap.String("path", r.URL.Path),
	)

	c.responseBuilder.WriteError(w, r, serviceErr)
}
