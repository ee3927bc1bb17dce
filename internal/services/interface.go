// file: internal/services/interface.go
package services

import (
	"context"

	"quantlearn/internal/models"
)

// ===============================
// CORE SERVICE INTERFACES
// ===============================

// AuthService defines authentication and token business logic.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// Token handling, used by the auth middleware.
	IssueToken(user *models.User) (string, error)
	ParseToken(tokenString string) (*TokenClaims, error)
}

// GamificationService is the points, level, streak and badge engine.
type GamificationService interface {
	// EnsureInitialized lazily creates the default stats row. Every public
	// entry point calls it exactly once before reading or writing stats.
	EnsureInitialized(ctx context.Context, userID int64) (*models.UserStats, error)

	AddPoints(ctx context.Context, userID int64, points int, reason string) (*models.PointsResult, error)
	UpdateStudyStreak(ctx context.Context, userID int64) (*models.UserStats, error)

	// RecordAction runs the full pipeline for one learning event: streak
	// update, event points, then badge evaluation.
	RecordAction(ctx context.Context, userID int64, action string, payload *ActionPayload) (*ActionResult, error)

	GetUserStats(ctx context.Context, userID int64) (*models.UserStats, error)
	GetUserGamificationData(ctx context.Context, userID int64) (*models.GamificationData, error)
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
	GetBadgeCatalog(ctx context.Context) ([]*models.Badge, error)
	SeedDefaultBadges(ctx context.Context) error
	AddStudyTime(ctx context.Context, userID int64, minutes int) error
}

// LearningService serves the topic catalog and per-user progress.
type LearningService interface {
	GetSections(ctx context.Context) ([]*models.Section, error)
	GetTopic(ctx context.Context, slug string) (*models.Topic, error)
	CompleteTopic(ctx context.Context, userID int64, topicSlug string) (*TopicCompletionResult, error)
	GetUserProgress(ctx context.Context, userID int64) (*ProgressSummary, error)
}

// QuizService serves quiz questions and grades submissions.
type QuizService interface {
	GetQuiz(ctx context.Context, req *QuizRequest) ([]*models.PublicQuizQuestion, error)
	SubmitQuiz(ctx context.Context, req *QuizSubmission) (*QuizSubmissionResult, error)
	GetHistory(ctx context.Context, userID int64, limit int) ([]*models.QuizResult, error)

	// Question bank management, admin only.
	CreateQuestion(ctx context.Context, req *QuestionRequest) (*models.QuizQuestion, error)
	UpdateQuestion(ctx context.Context, id int64, req *QuestionRequest) (*models.QuizQuestion, error)
	DeleteQuestion(ctx context.Context, id int64) error
}

// BookmarkService manages per-user bookmarks and notes.
type BookmarkService interface {
	CreateBookmark(ctx context.Context, req *BookmarkRequest) (*models.Bookmark, error)
	ListBookmarks(ctx context.Context, userID int64) ([]*models.Bookmark, error)
	DeleteBookmark(ctx context.Context, userID int64, id string) error

	CreateNote(ctx context.Context, req *NoteRequest) (*models.Note, error)
	ListNotes(ctx context.Context, userID int64) ([]*models.Note, error)
	UpdateNote(ctx context.Context, userID int64, id string, content string) (*models.Note, error)
	DeleteNote(ctx context.Context, userID int64, id string) error
}

// TutorService proxies chat to the AI tutor backend.
type TutorService interface {
	Chat(ctx context.Context, req *TutorRequest) (*models.TutorReply, error)
}

// AdminService covers platform administration.
type AdminService interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateUserRole(ctx context.Context, userID int64, role string) (*models.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	GetPlatformStats(ctx context.Context) (*PlatformStats, error)
}
