// ===============================
// FILE: internal/handlers/api/v1/auth/auth_controller.go
// ===============================

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"quantlearn/internal/middleware"
	"quantlearn/internal/response"
	"quantlearn/internal/services"
	"quantlearn/internal/validation"

	"go.uber.org/zap"
)

// AuthController handles authentication API endpoints
type AuthController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewAuthController creates a new authentication controller
func NewAuthController(
	serviceCollection *services.ServiceCollection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *AuthController {
	return &AuthController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// ===============================
// AUTHENTICATION ENDPOINTS
// ===============================

// Register handles user registration - POST /api/v1/auth/register
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", "register"))

	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError("Invalid request body", err), "register")
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		logger.Warn("Registration validation failed", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError(err.Error(), err), "register")
		return
	}

	authService := c.serviceCollection.Auth
	authResp, err := authService.Register(ctx, &req)
	if err != nil {
		logger.Warn("Registration failed", zap.Error(err))
		c.handleServiceError(w, r, err, "register")
		return
	}

	logger.Info("User registered successfully",
		zap.Int64("user_id", authResp.User.ID),
		zap.String("username", authResp.User.Username),
	)

	c.responseBuilder.WriteCreated(w, r, authResp)
}

// Login handles user authentication - POST /api/v1/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", "login"))

	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError("Invalid request body", err), "login")
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		logger.Warn("Login validation failed", zap.Error(err))
		c.handleServiceError(w, r, services.NewValidationError(err.Error(), err), "login")
		return
	}

	authService := c.serviceCollection.Auth
	authResp, err := authService.Login(ctx, &req)
	if err != nil {
		logger.Warn("Login failed", zap.Error(err), zap.String("identifier", req.Identifier))
		c.handleServiceError(w, r, err, "login")
		return
	}

	logger.Info("User logged in successfully",
		zap.Int64("user_id", authResp.User.ID),
		zap.String("username", authResp.User.Username),
	)

	c.responseBuilder.WriteSuccess(w, r, authResp)
}

// Me returns the authenticated user's profile - GET /api/v1/auth/me
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", "me"))

	userID := middleware.GetUserID(r.Context())
	if userID <= 0 {
		c.handleServiceError(w, r, services.NewUnauthorizedError("Authentication required"), "me")
		return
	}

	user, err := c.serviceCollection.Auth.GetUserByID(ctx, userID)
	if err != nil {
		logger.Warn("Failed to load user", zap.Error(err), zap.Int64("user_id", userID))
		c.handleServiceError(w, r, err, "me")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, user)
}

// ===============================
// HELPER METHODS
// ===============================

// handleServiceError converts service errors to proper HTTP responses
func (c *AuthController) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	serviceErr := services.GetServiceError(err)

	c.logger.Debug("Auth service error",
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("error_type", serviceErr.Type),
		zap.String("path", r.URL.Path),
	)

	c.responseBuilder.WriteError(w, r, serviceErr)
}
