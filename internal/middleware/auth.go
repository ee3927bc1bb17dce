// file: internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"quantlearn/internal/cache"
	"quantlearn/internal/contextutils"
	"quantlearn/internal/models"
	"quantlearn/internal/services"

	"go.uber.org/zap"
)

// AuthConfig holds authentication middleware configuration
type AuthConfig struct {
	// Performance
	CacheUserData bool          `json:"cache_user_data"`
	UserCacheTTL  time.Duration `json:"user_cache_ttl"`

	// Audit
	LogSuccessfulAuth bool `json:"log_successful_auth"`
	LogFailedAuth     bool `json:"log_failed_auth"`
}

// DefaultAuthConfig returns production-ready authentication configuration
func DefaultAuthConfig() *AuthConfig {
	return &AuthConfig{
		CacheUserData:     true,
		UserCacheTTL:      5 * time.Minute,
		LogSuccessfulAuth: false,
		LogFailedAuth:     true,
	}
}

// AuthContext holds the authenticated identity for a request.
type AuthContext struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the authenticated user holds the admin role.
func (a *AuthContext) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// AuthMiddleware authenticates requests with bearer JWTs issued by the
// auth service.
type AuthMiddleware struct {
	config      *AuthConfig
	cache       cache.Cache
	authService services.AuthService
	logger      *zap.Logger
}

// NewAuthMiddleware creates the authentication middleware.
func NewAuthMiddleware(
	config *AuthConfig,
	c cache.Cache,
	authService services.AuthService,
	logger *zap.Logger,
) *AuthMiddleware {
	if config == nil {
		config = DefaultAuthConfig()
	}
	return &AuthMiddleware{
		config:      config,
		cache:       c,
		authService: authService,
		logger:      logger,
	}
}

// ===============================
// AUTHENTICATION MIDDLEWARE
// ===============================

// Authenticate validates the bearer token when present. With required set,
// requests without a valid token are rejected.
func (am *AuthMiddleware) Authenticate(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			claims, err := am.authenticateRequest(r)
			if err != nil {
				if required {
					if am.config.LogFailedAuth {
						am.logger.Warn("Authentication failed",
							zap.Error(err),
							zap.String("path", r.URL.Path),
							zap.String("request_id", GetRequestID(ctx)),
						)
					}
					am.writeAuthError(w, "Authentication required", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if am.config.LogSuccessfulAuth {
				am.logger.Info("Authentication successful",
					zap.Int64("user_id", claims.UserID),
					zap.String("username", claims.Username),
				)
			}

			authCtx := &AuthContext{
				UserID:   claims.UserID,
				Username: claims.Username,
				Role:     claims.Role,
			}
			ctx = context.WithValue(ctx, AuthContextKey, authCtx)
			ctx = contextutils.WithUserID(ctx, claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth requires authentication for the endpoint
func (am *AuthMiddleware) RequireAuth() func(http.Handler) http.Handler {
	return am.Authenticate(true)
}

// OptionalAuth provides optional authentication for the endpoint
func (am *AuthMiddleware) OptionalAuth() func(http.Handler) http.Handler {
	return am.Authenticate(false)
}

// RequireRole requires one of the given roles.
func (am *AuthMiddleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := GetAuthContext(r.Context())
			if authCtx == nil {
				am.writeAuthError(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if authCtx.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			am.logger.Warn("Insufficient role",
				zap.Int64("user_id", authCtx.UserID),
				zap.String("role", authCtx.Role),
				zap.Strings("required_roles", roles),
			)
			am.writeAuthError(w, "Insufficient role", http.StatusForbidden)
		})
	}
}

// RequireAdmin restricts the endpoint to admins.
func (am *AuthMiddleware) RequireAdmin() func(http.Handler) http.Handler {
	return am.RequireRole(models.RoleAdmin)
}

// ===============================
// TOKEN EXTRACTION AND VALIDATION
// ===============================

// authenticateRequest extracts and verifies the bearer token.
func (am *AuthMiddleware) authenticateRequest(r *http.Request) (*services.TokenClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("no authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, fmt.Errorf("invalid authorization header format")
	}

	claims, err := am.authService.ParseToken(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

// GetUserFromRequest loads the full user record behind the current token,
// consulting the cache first.
func (am *AuthMiddleware) GetUserFromRequest(ctx context.Context, userID int64) (*models.User, error) {
	cacheKey := fmt.Sprintf("user:%d", userID)
	if am.config.CacheUserData {
		var user models.User
		if cache.GetJSON(ctx, am.cache, cacheKey, &user) {
			return &user, nil
		}
	}

	user, err := am.authService.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if am.config.CacheUserData {
		if err := cache.SetJSON(ctx, am.cache, cacheKey, user, am.config.UserCacheTTL); err != nil {
			am.logger.Warn("Failed to cache user", zap.Error(err), zap.Int64("user_id", userID))
		}
	}
	return user, nil
}

// writeAuthError writes authentication error response
func (am *AuthMiddleware) writeAuthError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	if statusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"type":    "UNAUTHORIZED",
			"message": message,
		},
		"timestamp": time.Now().Unix(),
	}
	if statusCode == http.StatusForbidden {
		errorResponse["error"].(map[string]interface{})["type"] = "FORBIDDEN"
	}

	response, _ := json.Marshal(errorResponse)
	w.Write(response)
}

// ===============================
// CONTEXT HELPERS
// ===============================

// Context keys
type contextKey string

const (
	AuthContextKey contextKey = "auth_context"
)

// GetAuthContext extracts auth context from request context
func GetAuthContext(ctx context.Context) *AuthContext {
	if authCtx, ok := ctx.Value(AuthContextKey).(*AuthContext); ok {
		return authCtx
	}
	return nil
}

// GetUserID extracts user ID from request context
func GetUserID(ctx context.Context) int64 {
	return contextutils.GetUserID(ctx)
}
