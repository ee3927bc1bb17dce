// ===============================
// FILE: internal/handlers/api/v1/admin/admin_controller.go
// ===============================

package admin

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

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// AdminController covers platform administration endpoints. Every route
// here sits behind the admin role middleware.
type AdminController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
	paginationParser  *response.PaginationParser
}

// NewAdminController creates a new admin controller
func NewAdminController(
	serviceCollection *services.ServiceCollection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *AdminController {
	return &AdminController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
		paginationParser:  response.NewPaginationParser(response.DefaultPaginationConfig()),
	}
}

// ===============================
// USER MANAGEMENT ENDPOINTS
// ===============================

// ListUsers lists registered users - GET /api/v1/admin/users
func (c *AdminController) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", "admin_list_users"))

	params, err := c.paginationParser.ParseFromQuery(r.URL.Query())
	if err != nil {
		logger.Warn("Invalid pagination parameters", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError(err.Error(), err), "admin_list_users")
		return
	}

	users, err := c.serviceCollection.Admin.ListUsers(ctx, params.PageSize, params.Offset)
	if err != nil {
		logger.Warn("Failed to list users", zap.Error(err))
		c.handleServiceError(w, r, err, "admin_list_users")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"users":     users,
		"count":     len(users),
		"page":      params.Page,
		"page_size": params.PageSize,
	})
}

// roleUpdateRequest changes a user's role
type roleUpdateRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// UpdateUserRole changes a user's role - PUT /api/v1/admin/users/{id}/role
func (c *AdminController) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", "admin_update_role"))

	userID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		logger.Warn("Invalid user ID", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError("Invalid user ID", err), "admin_update_role")
		return
	}

	var req roleUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError("Invalid request body", err), "admin_update_role")
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		logger.Warn("Role validation failed", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError(err.Error(), err), "admin_update_role")
		return
	}

	user, err := c.serviceCollection.Admin.UpdateUserRole(ctx, userID, req.Role)
	if err != nil {
		logger.Warn("Role update failed", zap.Error(err), zap.Int64("target_user_id", userID))
		c.handleServiceError(w, r, err, "admin_update_role")
		return
	}

	logger.Info("User role updated",
		zap.Int64("target_user_id", userID),
		zap.String("role", req.Role),
	)

	c.responseBuilder.WriteSuccess(w, r, user)
}

// DeleteUser removes an account - DELETE /api/v1/admin/users/{id}
func (c *AdminController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", "admin_delete_user"))

	userID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		logger.Warn("Invalid user ID", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError("Invalid user ID", err), "admin_delete_user")
		return
	}

	// Admins cannot delete themselves, the platform would lose its operator
	if userID == middleware.GetUserID(r.Context()) {
		c.handleServiceError(w, r, services.NewValidationError("Cannot delete your own account", nil), "admin_delete_user")
		return
	}

	if err := c.serviceCollection.Admin.DeleteUser(ctx, userID); err != nil {
		logger.Warn("User deletion failed", zap.Error(err), zap.Int64("target_user_id", userID))
		c.handleServiceError(w, r, err, "admin_delete_user")
		return
	}

	logger.Info("User deleted", zap.Int64("target_user_id", userID))

	c.responseBuilder.WriteNoContent(w, r)
}

// GetPlatformStats returns the admin overview - GET /api/v1/admin/stats
func (c *AdminController) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", "admin_stats"))

	stats, err := c.serviceCollection.Admin.GetPlatformStats(ctx)
	if err != nil {
		logger.Warn("Failed to load platform stats", zap.Error(err))
		c.handleServiceError(w, r, err, "admin_stats")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, stats)
}

// ===============================
// QUESTION BANK ENDPOINTS
// ===============================

// CreateQuestion adds a quiz question - POST /api/v1/admin/questions
func (c *AdminController) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", "admin_create_question"))

	var req services.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError("Invalid request body", err), "admin_create_question")
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		logger.Warn("Question validation failed", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError(err.Error(), err), "admin_create_question")
		return
	}

	question, err := c.serviceCollection.Quiz.CreateQuestion(ctx, &req)
	if err != nil {
		logger.Warn("Question creation failed", zap.Error(err), zap.String("topic_slug", req.TopicSlug))
		c.handleServiceError(w, r, err, "admin_create_question")
		return
	}

	logger.Info("Question created",
		zap.Int64("question_id", question.ID),
		zap.String("topic_slug", req.TopicSlug),
	)

	c.responseBuilder.WriteCreated(w, r, question)
}

// UpdateQuestion rewrites a quiz question - PUT /api/v1/admin/questions/{id}
func (c *AdminController) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", "admin_update_question"))

	questionID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		logger.Warn("Invalid question ID", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError("Invalid question ID", err), "admin_update_question")
		return
	}

	var req services.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError("Invalid request body", err), "admin_update_question")
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		logger.Warn("Question validation failed", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError(err.Error(), err), "admin_update_question")
		return
	}

	question, err := c.serviceCollection.Quiz.UpdateQuestion(ctx, questionID, &req)
	if err != nil {
		logger.Warn("Question update failed", zap.Error(err), zap.Int64("question_id", questionID))
		c.handleServiceError(w, r, err, "admin_update_question")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, question)
}

// DeleteQuestion removes a quiz question - DELETE /api/v1/admin/questions/{id}
func (c *AdminController) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", "admin_delete_question"))

	questionID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		logger.Warn("Invalid question ID", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError("Invalid question ID", err), "admin_delete_question")
		return
	}

	if err := c.serviceCollection.Quiz.DeleteQuestion(ctx, questionID); err != nil {
		logger.Warn("Question deletion failed", zap.Error(err), zap.Int64("question_id", questionID))
		c.handleServiceError(w, r, err, "admin_delete_question")
		return
	}

	logger.Info("Question deleted", zap.Int64("question_id", questionID))

	c.responseBuilder.WriteNoContent(w, r)
}

// ===============================
// BADGE CATALOG ENDPOINTS
// ===============================

// SeedBadges re-runs the badge catalog seed - POST /api/v1/admin/badges/seed
// The seed also runs on boot; this endpoint exists to pick up catalog
// changes without a restart.
func (c *AdminController) SeedBadges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", "admin_seed_badges"))

	if err := c.serviceCollection.Gamification.SeedDefaultBadges(ctx); err != nil {
		logger.Warn("Badge seed failed", zap.Error(err))
		c.handleServiceError(w, r, err, "admin_seed_badges")
		return
	}

	logger.Info("Badge catalog reseeded")

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"seeded": true,
	})
}

// ===============================
// HELPER METHODS
// ===============================

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, services.NewValidationError("invalid ID format", err)
	}
	return id, nil
}

// handleServiceError converts service errors to proper HTTP responses
func (c *AdminController) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	serviceErr := services.GetServiceError(err)

	c.logger.Debug("Admin service error",
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("error_type", serviceErr.Type),
		zap.String("path", r.URL.Path),
	)

	c.responseBuilder.WriteError(w, r, serviceErr)
}
