// file: internal/services/admin_service.go
package services

import (
	"context"

	"quantlearn/internal/models"
	"quantlearn/internal/repositories"

	"go.uber.org/zap"
)

// adminService implements AdminService.
type adminService struct {
	users   repositories.UserRepository
	catalog repositories.CatalogRepository
	quizzes repositories.QuizRepository
	badges  repositories.BadgeRepository
	logger  *zap.Logger
}

// NewAdminService creates the platform administration service.
func NewAdminService(
	users repositories.UserRepository,
	catalog repositories.CatalogRepository,
	quizzes repositories.QuizRepository,
	badges repositories.BadgeRepository,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		users:   users,
		catalog: catalog,
		quizzes: quizzes,
		badges:  badges,
		logger:  logger,
	}
}

// ListUsers pages through registered accounts, newest first.
func (s *adminService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	limit = repositories.NormalizeLimit(limit, 20, 100)
	if offset < 0 {
		offset = 0
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, NewServiceUnavailableError("user storage unavailable")
	}
	return users, nil
}

// UpdateUserRole changes an account's role.
func (s *adminService) UpdateUserRole(ctx context.Context, userID int64, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, NewValidationError("role must be either user or admin", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load user", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewServiceUnavailableError("user storage unavailable")
	}
	if user == nil {
		return nil, EntityNotFoundError("user", userID)
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		s.logger.Error("Failed to update user role", zap.Error(err),
			zap.Int64("user_id", userID), zap.String("role", role))
		return nil, NewServiceUnavailableError("user storage unavailable")
	}

	s.logger.Info("User role updated",
		zap.Int64("user_id", userID),
		zap.String("old_role", user.Role),
		zap.String("new_role", role),
	)
	user.Role = role
	return user, nil
}

// DeleteUser removes an account. Stats, progress, badges, bookmarks and
// notes go with it via ON DELETE CASCADE.
func (s *adminService) DeleteUser(ctx context.Context, userID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load user", zap.Error(err), zap.Int64("user_id", userID))
		return NewServiceUnavailableError("user storage unavailable")
	}
	if user == nil {
		return EntityNotFoundError("user", userID)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		s.logger.Error("Failed to delete user", zap.Error(err), zap.Int64("user_id", userID))
		return NewServiceUnavailableError("user storage unavailable")
	}
	s.logger.Info("User deleted", zap.Int64("user_id", userID), zap.String("username", user.Username))
	return nil
}

// GetPlatformStats aggregates platform-wide counters for the admin overview.
func (s *adminService) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return nil, NewServiceUnavailableError("user storage unavailable")
	}
	totalTopics, err := s.catalog.CountTopics(ctx)
	if err != nil {
		s.logger.Error("Failed to count topics", zap.Error(err))
		return nil, NewServiceUnavailableError("catalog unavailable")
	}
	totalQuestions, err := s.quizzes.CountQuestions(ctx)
	if err != nil {
		s.logger.Error("Failed to count questions", zap.Error(err))
		return nil, NewServiceUnavailableError("quiz storage unavailable")
	}
	badgeCount, err := s.badges.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count badges", zap.Error(err))
		return nil, NewServiceUnavailableError("badge storage unavailable")
	}

	return &PlatformStats{
		TotalUsers:     totalUsers,
		TotalTopics:    totalTopics,
		TotalQuestions: totalQuestions,
		BadgeCatalog:   badgeCount,
	}, nil
}
