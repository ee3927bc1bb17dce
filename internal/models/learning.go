package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Topic progress statuses.
const (
	TopicStatusInProgress = "in_progress"
	TopicStatusCompleted  = "completed"
)

// Quiz pass threshold as a percentage score.
const QuizPassScore = 70.0

// Section groups topics in the study catalog.
type Section struct {
	ID       string  `json:"id" db:"id"`
	Title    string  `json:"title" db:"title"`
	Position int     `json:"position" db:"position"`
	Topics   []Topic `json:"topics,omitempty"`
}

// Topic is a single study unit inside a section.
type Topic struct {
	Slug      string `json:"slug" db:"slug"`
	SectionID string `json:"section_id" db:"section_id"`
	Title     string `json:"title" db:"title"`
	Position  int    `json:"position" db:"position"`
}

// TopicProgress tracks one user's state on one topic.
type TopicProgress struct {
	ID          int64      `json:"id" db:"id"`
	UserID      int64      `json:"user_id" db:"user_id"`
	TopicSlug   string     `json:"topic_slug" db:"topic_slug"`
	Status      string     `json:"status" db:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ===============================
// QUIZ
// ===============================

// QuizQuestion is a multiple-choice question. CorrectIndex and Explanation
// are stripped before questions are handed to non-admin clients.
type QuizQuestion struct {
	ID           int64       `json:"id" db:"id"`
	TopicSlug    string      `json:"topic_slug" db:"topic_slug"`
	Difficulty   string      `json:"difficulty" db:"difficulty"`
	Prompt       string      `json:"prompt" db:"prompt"`
	Options      StringSlice `json:"options" db:"options"`
	CorrectIndex int         `json:"correct_index" db:"correct_index"`
	Explanation  string      `json:"explanation" db:"explanation"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// PublicView strips grading fields for client delivery.
func (q *QuizQuestion) PublicView() *PublicQuizQuestion {
	return &PublicQuizQuestion{
		ID:         q.ID,
		TopicSlug:  q.TopicSlug,
		Difficulty: q.Difficulty,
		Prompt:     q.Prompt,
		Options:    q.Options,
	}
}

// PublicQuizQuestion is a question without its answer key.
type PublicQuizQuestion struct {
	ID         int64       `json:"id"`
	TopicSlug  string      `json:"topic_slug"`
	Difficulty string      `json:"difficulty"`
	Prompt     string      `json:"prompt"`
	Options    StringSlice `json:"options"`
}

// QuizResult is one graded submission.
type QuizResult struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	TopicSlug      string    `json:"topic_slug" db:"topic_slug"`
	Score          float64   `json:"score" db:"score"`
	Passed         bool      `json:"passed" db:"passed"`
	TotalQuestions int       `json:"total_questions" db:"total_questions"`
	CorrectCount   int       `json:"correct_count" db:"correct_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// QuestionOutcome reports per-question grading detail back to the client.
type QuestionOutcome struct {
	QuestionID   int64  `json:"question_id"`
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correct_index"`
	Explanation  string `json:"explanation,omitempty"`
}

// ===============================
// BOOKMARKS AND NOTES
// ===============================

// Bookmark pins a topic to a user's saved list.
type Bookmark struct {
	ID        string    `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	TopicSlug string    `json:"topic_slug" db:"topic_slug"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Note is free-form user text attached to a topic.
type Note struct {
	ID        string    `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	TopicSlug string    `json:"topic_slug" db:"topic_slug"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ===============================
// JSONB HELPERS
// ===============================

// StringSlice stores a []string in a jsonb column.
type StringSlice []string

// Value implements driver.Valuer.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(s))
}

// Scan implements sql.Scanner.
func (s *StringSlice) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported string slice source type %T", src)
	}
	return json.Unmarshal(data, (*[]string)(s))
}
