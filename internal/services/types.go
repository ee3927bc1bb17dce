// file: internal/services/types.go
package services

import (
	"time"

	"quantlearn/internal/models"
)

// ===============================
// AUTH TYPES
// ===============================

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest authenticates by username or email.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// AuthResponse carries the issued token and its subject.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// TokenClaims is the decoded JWT payload the middleware works with.
type TokenClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ===============================
// GAMIFICATION TYPES
// ===============================

// Learning actions recognized by RecordAction.
const (
	ActionTopicCompleted = "topic_completed"
	ActionQuizCompleted  = "quiz_completed"
	ActionChatMessage    = "chat_message"
)

// ActionPayload carries action-specific detail. Score is set for
// quiz_completed and drives the points tier.
type ActionPayload struct {
	Score *float64 `json:"score,omitempty"`
}

// ActionResult reports everything a single recorded action changed.
type ActionResult struct {
	Action    string               `json:"action"`
	Points    *models.PointsResult `json:"points"`
	NewBadges []*models.Badge      `json:"new_badges"`
	Streak    int                  `json:"streak"`
}

// PlatformStats is the admin overview.
type PlatformStats struct {
	TotalUsers     int `json:"total_users"`
	TotalTopics    int `json:"total_topics"`
	TotalQuestions int `json:"total_questions"`
	BadgeCatalog   int `json:"badge_catalog"`
}

// ===============================
// LEARNING TYPES
// ===============================

// TopicCompletionResult reports topic completion plus its gamification
// outcome. Gamification is nil when the topic was already completed.
type TopicCompletionResult struct {
	TopicSlug      string        `json:"topic_slug"`
	NewlyCompleted bool          `json:"newly_completed"`
	Gamification   *ActionResult `json:"gamification,omitempty"`
}

// ProgressSummary is a user's progress across the catalog.
type ProgressSummary struct {
	TopicsCompleted int                     `json:"topics_completed"`
	TotalTopics     int                     `json:"total_topics"`
	PercentComplete float64                 `json:"percent_complete"`
	Topics          []*models.TopicProgress `json:"topics"`
}

// ===============================
// QUIZ TYPES
// ===============================

// QuizRequest fetches questions for a topic.
type QuizRequest struct {
	TopicSlug  string `json:"topic_slug" validate:"required"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Limit      int    `json:"limit" validate:"omitempty,min=1,max=50"`
}

// QuizAnswer is one selected option in a submission.
type QuizAnswer struct {
	QuestionID    int64 `json:"question_id" validate:"required"`
	SelectedIndex int   `json:"selected_index" validate:"min=0"`
}

// QuizSubmission grades a set of answers for one topic.
type QuizSubmission struct {
	UserID    int64        `json:"-"`
	TopicSlug string       `json:"topic_slug" validate:"required"`
	Answers   []QuizAnswer `json:"answers" validate:"required,min=1,dive"`
}

// QuizSubmissionResult is the graded outcome plus gamification changes.
type QuizSubmissionResult struct {
	Result       *models.QuizResult       `json:"result"`
	Outcomes     []models.QuestionOutcome `json:"outcomes"`
	Gamification *ActionResult            `json:"gamification"`
}

// QuestionRequest creates or updates a quiz question.
type QuestionRequest struct {
	TopicSlug    string   `json:"topic_slug" validate:"required"`
	Difficulty   string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Prompt       string   `json:"prompt" validate:"required"`
	Options      []string `json:"options" validate:"required,min=2,max=6,dive,required"`
	CorrectIndex int      `json:"correct_index" validate:"min=0"`
	Explanation  string   `json:"explanation"`
}

// ===============================
// BOOKMARK AND NOTE TYPES
// ===============================

// BookmarkRequest pins a topic.
type BookmarkRequest struct {
	UserID    int64  `json:"-"`
	TopicSlug string `json:"topic_slug" validate:"required"`
	Title     string `json:"title" validate:"max=255"`
}

// NoteRequest attaches a note to a topic.
type NoteRequest struct {
	UserID    int64  `json:"-"`
	TopicSlug string `json:"topic_slug" validate:"required"`
	Content   string `json:"content" validate:"required,max=10000"`
}

// ===============================
// TUTOR TYPES
// ===============================

// TutorRequest is one chat turn sent to the AI tutor.
type TutorRequest struct {
	UserID   int64                `json:"-"`
	Messages []models.ChatMessage `json:"messages" validate:"required,min=1,dive"`
	Model    string               `json:"model" validate:"omitempty,max=100"`
}
