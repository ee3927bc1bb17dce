// file: internal/services/auth_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quantlearn/internal/config"
	"quantlearn/internal/models"
	"quantlearn/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService with bcrypt password hashing and
// HS256 JWTs.
type authService struct {
	users        repositories.UserRepository
	gamification GamificationService
	cfg          *config.AuthConfig
	logger       *zap.Logger
}

// NewAuthService creates the auth service. The gamification service is used
// to initialize stats for fresh registrations.
func NewAuthService(
	users repositories.UserRepository,
	gamification GamificationService,
	cfg *config.AuthConfig,
	logger *zap.Logger,
) AuthService {
	return &authService{
		users:        users,
		gamification: gamification,
		cfg:          cfg,
		logger:       logger,
	}
}

// tokenClaims is the JWT payload shape on the wire.
type tokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// ===============================
// REGISTRATION AND LOGIN
// ===============================

// Register creates an account, initializes its stats row and returns a token.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if len(req.Password) < s.cfg.MinPasswordLength {
		return nil, NewValidationError(
			fmt.Sprintf("password must be at least %d characters", s.cfg.MinPasswordLength), nil)
	}

	if existing, err := s.users.GetByUsername(ctx, username); err != nil {
		s.logger.Error("Failed to check username availability", zap.Error(err))
		return nil, NewInternalError("registration failed")
	} else if existing != nil {
		return nil, EntityAlreadyExistsError("user", "username", username)
	}
	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		s.logger.Error("Failed to check email availability", zap.Error(err))
		return nil, NewInternalError("registration failed")
	} else if existing != nil {
		return nil, EntityAlreadyExistsError("user", "email", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BCryptCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, NewInternalError("registration failed")
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err), zap.String("username", username))
		return nil, NewInternalError("registration failed")
	}

	// Stats are created eagerly here; every gamification entry point also
	// lazily initializes, so a failure is not fatal to registration.
	if _, err := s.gamification.EnsureInitialized(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to initialize stats for new user",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)
	return s.buildAuthResponse(user)
}

// Login authenticates by username or email.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)

	var user *models.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.users.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.users.GetByUsername(ctx, identifier)
	}
	if err != nil {
		s.logger.Error("Failed to get user during login", zap.Error(err))
		return nil, NewInternalError("authentication failed")
	}
	if user == nil {
		// Same error as a bad password so the response does not reveal
		// which accounts exist.
		return nil, NewUnauthorizedError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Invalid password attempt",
			zap.Int64("user_id", user.ID),
			zap.String("username", user.Username),
		)
		return nil, NewUnauthorizedError("invalid credentials")
	}

	s.logger.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)
	return s.buildAuthResponse(user)
}

// GetUserByID loads a user for the current-user endpoint and middleware.
func (s *authService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load user", zap.Error(err), zap.Int64("user_id", id))
		return nil, NewInternalError("failed to load user")
	}
	if user == nil {
		return nil, EntityNotFoundError("user", id)
	}
	return user, nil
}

// ===============================
// TOKENS
// ===============================

// IssueToken signs a JWT for the user.
func (s *authService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return "", NewInternalError("failed to issue token")
	}
	return signed, nil
}

// ParseToken validates a JWT and returns its claims.
func (s *authService) ParseToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, NewUnauthorizedError("invalid or expired token")
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, NewUnauthorizedError("invalid token claims")
	}

	var userID int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil || userID <= 0 {
		return nil, NewUnauthorizedError("invalid token subject")
	}

	return &TokenClaims{
		UserID:   userID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

func (s *authService) buildAuthResponse(user *models.User) (*AuthResponse, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.cfg.JWTExpiry),
		User:      user,
	}, nil
}
