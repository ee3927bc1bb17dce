// file: internal/middleware/auth_test.go
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quantlearn/internal/models"
	"quantlearn/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubAuthService accepts a single known token and rejects everything else.
type stubAuthService struct {
	validToken string
	claims     *services.TokenClaims
}

func (s *stubAuthService) Register(context.Context, *services.RegisterRequest) (*services.AuthResponse, error) {
	return nil, nil
}

func (s *stubAuthService) Login(context.Context, *services.LoginRequest) (*services.AuthResponse, error) {
	return nil, nil
}

func (s *stubAuthService) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	return &models.User{ID: id, Username: s.claims.Username, Role: s.claims.Role}, nil
}

func (s *stubAuthService) IssueToken(*models.User) (string, error) {
	return s.validToken, nil
}

func (s *stubAuthService) ParseToken(tokenString string) (*services.TokenClaims, error) {
	if tokenString != s.validToken {
		return nil, services.NewUnauthorizedError("invalid or expired token")
	}
	return s.claims, nil
}

// stubCache is a minimal in-memory cache for middleware tests.
type stubCache struct {
	data map[string][]byte
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string][]byte)}
}

func (c *stubCache) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *stubCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *stubCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *stubCache) DeletePattern(_ context.Context, _ string) error { return nil }

func (c *stubCache) Increment(_ context.Context, _ string, delta int64) (int64, error) {
	return delta, nil
}

func (c *stubCache) Health(_ context.Context) error { return nil }

func (c *stubCache) Close() error { return nil }

func newTestAuthMiddleware(role string) *AuthMiddleware {
	auth := &stubAuthService{
		validToken: "valid-token",
		claims:     &services.TokenClaims{UserID: 7, Username: "ada", Role: role},
	}
	return NewAuthMiddleware(DefaultAuthConfig(), newStubCache(), auth, zap.NewNop())
}

func captureHandler(called *bool, userID *int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if userID != nil {
			*userID = GetUserID(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	am := newTestAuthMiddleware(models.RoleUser)

	var called bool
	var userID int64
	handler := am.RequireAuth()(captureHandler(&called, &userID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	am := newTestAuthMiddleware(models.RoleUser)

	var called bool
	handler := am.RequireAuth()(captureHandler(&called, nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	am := newTestAuthMiddleware(models.RoleUser)

	var called bool
	handler := am.RequireAuth()(captureHandler(&called, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsMalformedHeader(t *testing.T) {
	am := newTestAuthMiddleware(models.RoleUser)

	var called bool
	handler := am.RequireAuth()(captureHandler(&called, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthPassesThroughWithoutToken(t *testing.T) {
	am := newTestAuthMiddleware(models.RoleUser)

	var called bool
	var userID int64
	handler := am.OptionalAuth()(captureHandler(&called, &userID))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sections", nil))

	assert.True(t, called)
	assert.Equal(t, int64(0), userID, "anonymous requests carry no user id")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuthAttachesIdentityWhenPresent(t *testing.T) {
	am := newTestAuthMiddleware(models.RoleUser)

	var called bool
	var userID int64
	handler := am.OptionalAuth()(captureHandler(&called, &userID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sections", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, int64(7), userID)
}

func TestRequireAdminForbidsRegularUser(t *testing.T) {
	am := newTestAuthMiddleware(models.RoleUser)

	var called bool
	handler := am.RequireAuth()(am.RequireAdmin()(captureHandler(&called, nil)))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	am := newTestAuthMiddleware(models.RoleAdmin)

	var called bool
	handler := am.RequireAuth()(am.RequireAdmin()(captureHandler(&called, nil)))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminWithoutAuthContext(t *testing.T) {
	am := newTestAuthMiddleware(models.RoleAdmin)

	var called bool
	handler := am.RequireAdmin()(captureHandler(&called, nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetAuthContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), AuthContextKey, &AuthContext{UserID: 7, Role: models.RoleAdmin})

	authCtx := GetAuthContext(ctx)
	require.NotNil(t, authCtx)
	assert.True(t, authCtx.IsAdmin())

	assert.Nil(t, GetAuthContext(context.Background()))
}
