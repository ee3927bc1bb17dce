// file: internal/repositories/interfaces.go
package repositories

import (
	"context"

	"quantlearn/internal/models"
)

// Get-style methods return (nil, nil) when no row matches; callers decide
// whether a miss is an error.

// UserRepository defines the contract for user account operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateRole(ctx context.Context, id int64, role string) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// StatsRepository manages per-user gamification stats rows.
type StatsRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserStats, error)
	Create(ctx context.Context, stats *models.UserStats) error
	// EnsureExists inserts a default stats row for the user if one is
	// missing and returns the current row either way.
	EnsureExists(ctx context.Context, userID int64) (*models.UserStats, error)
	Update(ctx context.Context, stats *models.UserStats) error
	AddStudyTime(ctx context.Context, userID int64, minutes int) error
	TopByPoints(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// BadgeRepository manages the badge catalog and per-user awards.
type BadgeRepository interface {
	GetAll(ctx context.Context) ([]*models.Badge, error)
	GetByID(ctx context.Context, id string) (*models.Badge, error)
	Upsert(ctx context.Context, badge *models.Badge, position int) error
	Count(ctx context.Context) (int, error)

	GetUserBadges(ctx context.Context, userID int64) ([]*models.EarnedBadge, error)
	InsertUserBadge(ctx context.Context, userBadge *models.UserBadge) error
	CountUserBadges(ctx context.Context, userID int64) (int, error)
}

// CatalogRepository serves the static section and topic catalog.
type CatalogRepository interface {
	ListSections(ctx context.Context) ([]*models.Section, error)
	GetTopicBySlug(ctx context.Context, slug string) (*models.Topic, error)
	CountTopics(ctx context.Context) (int, error)
}

// ProgressRepository manages per-user topic completion.
type ProgressRepository interface {
	GetByUserAndTopic(ctx context.Context, userID int64, topicSlug string) (*models.TopicProgress, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.TopicProgress, error)
	// MarkCompleted upserts the progress row to completed status and
	// reports whether the topic was newly completed by this call.
	MarkCompleted(ctx context.Context, userID int64, topicSlug string) (bool, error)
	CountCompleted(ctx context.Context, userID int64) (int, error)
}

// QuizRepository manages quiz questions and submitted results.
type QuizRepository interface {
	ListQuestions(ctx context.Context, topicSlug, difficulty string, limit int) ([]*models.QuizQuestion, error)
	GetQuestionsByIDs(ctx context.Context, ids []int64) ([]*models.QuizQuestion, error)
	CreateQuestion(ctx context.Context, question *models.QuizQuestion) error
	UpdateQuestion(ctx context.Context, question *models.QuizQuestion) error
	DeleteQuestion(ctx context.Context, id int64) error
	CountQuestions(ctx context.Context) (int, error)

	InsertResult(ctx context.Context, result *models.QuizResult) error
	ListResultsByUser(ctx context.Context, userID int64, limit int) ([]*models.QuizResult, error)
	CountResults(ctx context.Context, userID int64) (int, error)
	CountPassed(ctx context.Context, userID int64) (int, error)
}

// BookmarkRepository manages per-user topic bookmarks.
type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *models.Bookmark) error
	GetByID(ctx context.Context, id string) (*models.Bookmark, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Bookmark, error)
	Delete(ctx context.Context, id string, userID int64) error
}

// NoteRepository manages per-user topic notes.
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id string) (*models.Note, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Note, error)
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, id string, userID int64) error
}
