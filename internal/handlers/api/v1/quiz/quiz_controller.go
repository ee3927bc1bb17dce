// ===============================
// FILE: internal/handlers/api/v1/quiz/quiz_controller.go
// ===============================

package quiz

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"quantlearn/internal/middleware"
	"quantlearn/internal/response"
	"quantlearn/internal/services"
	"quantlearn/internal/validation"

	"go.uber.org/zap"
)

// QuizController serves quiz questions and grades submissions
type QuizController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewQuizController creates a new quiz controller
func NewQuizController(
	serviceCollection *services.ServiceCollection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *QuizController {
	return &QuizController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// ===============================
// QUIZ ENDPOINTS
// ===============================

// GetQuiz returns questions for a topic - GET /api/v1/quiz?topic={slug}
func (c *QuizController) GetQuiz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", "get_quiz"))

	req := &services.QuizRequest{
		TopicSlug:  r.URL.Query().Get("topic"),
		Difficulty: r.URL.Query().Get("difficulty"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			c.handleServiceError(w, r, services.NewValidationError("Invalid limit parameter", err), "get_quiz")
			return
		}
		req.Limit = limit
	}

	if err := validation.ValidateStruct(req); err != nil {
		logger.Warn("Quiz request validation failed", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError(err.Error(), err), "get_quiz")
		return
	}

	questions, err := c.serviceCollection.Quiz.GetQuiz(ctx, req)
	if err != nil {
		logger.Warn("Failed to load quiz", zap.Error(err), zap.String("topic_slug", req.TopicSlug))
		c.handleServiceError(w, r, err, "get_quiz")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"topic_slug": req.TopicSlug,
		"questions":  questions,
		"count":      len(questions),
	})
}

// SubmitQuiz grades a quiz submission - POST /api/v1/quiz/submit
func (c *QuizController) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	userID := middleware.GetUserID(r.Context())
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "submit_quiz"),
		zap.Int64("user_id", userID),
	)

	var req services.QuizSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError("Invalid request body", err), "submit_quiz")
		return
	}
	req.UserID = userID

	if err := validation.ValidateStruct(&req); err != nil {
		logger.Warn("Submission validation failed", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError(err.Error(), err), "submit_quiz")
		return
	}

	result, err := c.serviceCollection.Quiz.SubmitQuiz(ctx, &req)
	if err != nil {
		logger.Warn("Quiz submission failed", zap.Error(err), zap.String("topic_slug", req.TopicSlug))
		c.handleServiceError(w, r, err, "submit_quiz")
		return
	}

	logger.Info("Quiz graded",
		zap.String("topic_slug", req.TopicSlug),
		zap.Float64("score", result.Result.Score),
		zap.Bool("passed", result.Result.Passed),
	)

	c.responseBuilder.WriteSuccess(w, r, result)
}

// GetHistory returns recent quiz results - GET /api/v1/quiz/history
func (c *QuizController) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	userID := middleware.GetUserID(r.Context())
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", "quiz_history"),
		zap.Int64("user_id", userID),
	)

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			c.handleServiceError(w, r, services.NewValidationError("Invalid limit parameter", err), "quiz_history")
			return
		}
		limit = parsed
	}

	results, err := c.serviceCollection.Quiz.GetHistory(ctx, userID, limit)
	if err != nil {
		logger.Warn("Failed to load quiz history", zap.Error(err))
		c.handleServiceError(w, r, err, "quiz_history")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// handleServiceError converts service errors to proper HTTP responses
func (c *QuizController) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	serviceErr := services.GetServiceError(err)

	c.logger.Debug("Quiz service error",
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("error_type", serviceErr.Type),
		zap.String("path", r.URL.Path),
	)

	c.responseBuilder.WriteError(w, r, serviceErr)
}
