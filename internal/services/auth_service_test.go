// file: internal/services/auth_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"quantlearn/internal/config"
	"quantlearn/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:         "test-secret-key-for-tests-only",
		JWTExpiry:         time.Hour,
		BCryptCost:        bcrypt.MinCost,
		MinPasswordLength: 8,
	}
}

type authFixture struct {
	service AuthService
	users   *fakeUserRepo
	stats   *fakeStatsRepo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	users := newFakeUserRepo()
	stats := newFakeStatsRepo()
	gamification := NewGamificationService(
		stats, newFakeBadgeRepo(), newFakeQuizRepo(), newMemoryCache(),
		&config.CacheConfig{LeaderboardTTL: time.Minute}, logger,
	)

	return &authFixture{
		service: NewAuthService(users, gamification, testAuthConfig(), logger),
		users:   users,
		stats:   stats,
	}
}

func (f *authFixture) register(t *testing.T, username, email, password string) *AuthResponse {
	t.Helper()
	resp, err := f.service.Register(context.Background(), &RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterCreatesUserAndStats(t *testing.T) {
	f := newAuthFixture(t)

	resp := f.register(t, "ada", "ada@example.com", "correct-horse")

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.NotEqual(t, "correct-horse", resp.User.PasswordHash)

	// Registration eagerly creates the stats row.
	stats, ok := f.stats.rows[resp.User.ID]
	require.True(t, ok)
	assert.Equal(t, 1, stats.Level)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)

	resp := f.register(t, "ada", "  Ada@Example.COM ", "correct-horse")
	assert.Equal(t, "ada@example.com", resp.User.Email)
}

func TestRegisterShortPasswordRejected(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Register(context.Background(), &RegisterRequest{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "short",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", GetServiceError(err).Type)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada", "ada@example.com", "correct-horse")

	_, err := f.service.Register(context.Background(), &RegisterRequest{
		Username: "ada",
		Email:    "other@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", GetServiceError(err).Type)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada", "ada@example.com", "correct-horse")

	_, err := f.service.Register(context.Background(), &RegisterRequest{
		Username: "grace",
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", GetServiceError(err).Type)
}

func TestLoginByUsernameAndEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada", "ada@example.com", "correct-horse")
	ctx := context.Background()

	byUsername, err := f.service.Login(ctx, &LoginRequest{Identifier: "ada", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "ada", byUsername.User.Username)

	byEmail, err := f.service.Login(ctx, &LoginRequest{Identifier: "Ada@Example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, byUsername.User.ID, byEmail.User.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada", "ada@example.com", "correct-horse")

	_, err := f.service.Login(context.Background(), &LoginRequest{Identifier: "ada", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", GetServiceError(err).Type)
}

func TestLoginUnknownUserSameError(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada", "ada@example.com", "correct-horse")

	missing, err := f.service.Login(context.Background(), &LoginRequest{Identifier: "nobody", Password: "whatever"})
	require.Nil(t, missing)
	require.Error(t, err)

	_, wrongPw := f.service.Login(context.Background(), &LoginRequest{Identifier: "ada", Password: "wrong"})
	require.Error(t, wrongPw)

	// Unknown accounts and bad passwords must be indistinguishable.
	assert.Equal(t, GetServiceError(wrongPw).Message, GetServiceError(err).Message)
}

func TestIssueAndParseToken(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.register(t, "ada", "ada@example.com", "correct-horse")

	claims, err := f.service.ParseToken(resp.Token)
	require.NoError(t, err)

	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.register(t, "ada", "ada@example.com", "correct-horse")

	_, err := f.service.ParseToken(resp.Token + "x")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", GetServiceError(err).Type)

	_, err = f.service.ParseToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", GetServiceError(err).Type)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.register(t, "ada", "ada@example.com", "correct-horse")

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "a-completely-different-secret"
	logger := zap.NewNop()
	other := NewAuthService(newFakeUserRepo(), nil, otherCfg, logger)

	_, err := other.ParseToken(resp.Token)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", GetServiceError(err).Type)
}

func TestGetUserByID(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.register(t, "ada", "ada@example.com", "correct-horse")

	user, err := f.service.GetUserByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)

	_, err = f.service.GetUserByID(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", GetServiceError(err).Type)
}
