// file: internal/repositories/quiz_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"quantlearn/internal/database"
	"quantlearn/internal/models"

	"go.uber.org/zap"
)

// quizRepository implements QuizRepository on Postgres.
type quizRepository struct {
	*BaseRepository
}

// NewQuizRepository creates a new quiz repository.
func NewQuizRepository(db *database.Manager, logger *zap.Logger) QuizRepository {
	return &quizRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// ===============================
// QUESTIONS
// ===============================

// ListQuestions returns a random sample of questions for a topic, optionally
// filtered by difficulty.
func (r *quizRepository) ListQuestions(ctx context.Context, topicSlug, difficulty string, limit int) ([]*models.QuizQuestion, error) {
	limit = NormalizeLimit(limit, 10, 50)

	query := `
		SELECT id, topic_slug, difficulty, prompt, options, correct_index, explanation, created_at
		FROM quiz_questions
		WHERE topic_slug = $1`
	args := []interface{}{topicSlug}

	if difficulty != "" {
		query += ` AND difficulty = $2`
		args = append(args, difficulty)
	}
	query += fmt.Sprintf(` ORDER BY RANDOM() LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz questions: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// GetQuestionsByIDs retrieves questions by ID for grading a submission.
func (r *quizRepository) GetQuestionsByIDs(ctx context.Context, ids []int64) ([]*models.QuizQuestion, error) {
	if len(ids) == 0 {
		return []*models.QuizQuestion{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, topic_slug, difficulty, prompt, options, correct_index, explanation, created_at
		FROM quiz_questions
		WHERE id IN (%s)`, strings.Join(placeholders, ","))

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz questions by IDs: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

func scanQuestions(rows *sql.Rows) ([]*models.QuizQuestion, error) {
	var questions []*models.QuizQuestion
	for rows.Next() {
		var q models.QuizQuestion
		if err := rows.Scan(
			&q.ID, &q.TopicSlug, &q.Difficulty, &q.Prompt,
			&q.Options, &q.CorrectIndex, &q.Explanation, &q.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quiz question row: %w", err)
		}
		questions = append(questions, &q)
	}
	return questions, rows.Err()
}

// CreateQuestion inserts a new question.
func (r *quizRepository) CreateQuestion(ctx context.Context, question *models.QuizQuestion) error {
	query := `
		INSERT INTO quiz_questions (topic_slug, difficulty, prompt, options, correct_index, explanation)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.QueryRowContext(
		ctx, query,
		question.TopicSlug, question.Difficulty, question.Prompt,
		question.Options, question.CorrectIndex, question.Explanation,
	).Scan(&question.ID, &question.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create quiz question: %w", err)
	}

	r.GetLogger().Info("Quiz question created",
		zap.Int64("question_id", question.ID),
		zap.String("topic_slug", question.TopicSlug),
	)
	return nil
}

// UpdateQuestion rewrites an existing question.
func (r *quizRepository) UpdateQuestion(ctx context.Context, question *models.QuizQuestion) error {
	query := `
		UPDATE quiz_questions SET
			topic_slug = $2, difficulty = $3, prompt = $4,
			options = $5, correct_index = $6, explanation = $7
		WHERE id = $1`

	result, err := r.ExecContext(
		ctx, query,
		question.ID, question.TopicSlug, question.Difficulty, question.Prompt,
		question.Options, question.CorrectIndex, question.Explanation,
	)
	if err != nil {
		return fmt.Errorf("failed to update quiz question: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("quiz question %d not found", question.ID)
	}
	return nil
}

// DeleteQuestion removes a question.
func (r *quizRepository) DeleteQuestion(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM quiz_questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz question: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("quiz question %d not found", id)
	}
	return nil
}

// CountQuestions returns the question bank size.
func (r *quizRepository) CountQuestions(ctx context.Context) (int, error) {
	var count int
	if err := r.QueryRowContext(ctx, `SELECT COUNT(*) FROM quiz_questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count quiz questions: %w", err)
	}
	return count, nil
}

// ===============================
// RESULTS
// ===============================

// InsertResult records a graded quiz submission.
func (r *quizRepository) InsertResult(ctx context.Context, result *models.QuizResult) error {
	query := `
		INSERT INTO quiz_results (user_id, topic_slug, score, passed, total_questions, correct_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.QueryRowContext(
		ctx, query,
		result.UserID, result.TopicSlug, result.Score, result.Passed,
		result.TotalQuestions, result.CorrectCount,
	).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert quiz result: %w", err)
	}
	return nil
}

// ListResultsByUser returns recent quiz results, newest first.
func (r *quizRepository) ListResultsByUser(ctx context.Context, userID int64, limit int) ([]*models.QuizResult, error) {
	limit = NormalizeLimit(limit, 20, 100)

	query := `
		SELECT id, user_id, topic_slug, score, passed, total_questions, correct_count, created_at
		FROM quiz_results
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz results: %w", err)
	}
	defer rows.Close()

	results := make([]*models.QuizResult, 0, limit)
	for rows.Next() {
		var result models.QuizResult
		if err := rows.Scan(
			&result.ID, &result.UserID, &result.TopicSlug, &result.Score,
			&result.Passed, &result.TotalQuestions, &result.CorrectCount,
			&result.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quiz result row: %w", err)
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}

// CountResults returns how many quizzes the user has submitted.
func (r *quizRepository) CountResults(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quiz_results WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count quiz results: %w", err)
	}
	return count, nil
}

// CountPassed returns how many quizzes the user has passed.
func (r *quizRepository) CountPassed(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quiz_results WHERE user_id = $1 AND passed = TRUE`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count passed quizzes: %w", err)
	}
	return count, nil
}
