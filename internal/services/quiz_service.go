// file: internal/services/quiz_service.go
package services

import (
	"context"
	"fmt"
	"math"

	"quantlearn/internal/models"
	"quantlearn/internal/repositories"

	"go.uber.org/zap"
)

// quizService implements QuizService: question delivery, grading and the
// question bank admin surface.
type quizService struct {
	quizzes      repositories.QuizRepository
	catalog      repositories.CatalogRepository
	gamification GamificationService
	logger       *zap.Logger
}

// NewQuizService creates the quiz service.
func NewQuizService(
	quizzes repositories.QuizRepository,
	catalog repositories.CatalogRepository,
	gamification GamificationService,
	logger *zap.Logger,
) QuizService {
	return &quizService{
		quizzes:      quizzes,
		catalog:      catalog,
		gamification: gamification,
		logger:       logger,
	}
}

// ===============================
// DELIVERY AND GRADING
// ===============================

// GetQuiz returns quiz questions for a topic with the answer key stripped.
func (s *quizService) GetQuiz(ctx context.Context, req *QuizRequest) ([]*models.PublicQuizQuestion, error) {
	if _, err := s.requireTopic(ctx, req.TopicSlug); err != nil {
		return nil, err
	}

	questions, err := s.quizzes.ListQuestions(ctx, req.TopicSlug, req.Difficulty, req.Limit)
	if err != nil {
		s.logger.Error("Failed to load quiz questions", zap.Error(err),
			zap.String("topic_slug", req.TopicSlug))
		return nil, NewServiceUnavailableError("quiz storage unavailable")
	}
	if len(questions) == 0 {
		return nil, NewNotFoundError(fmt.Sprintf("no quiz questions available for topic %s", req.TopicSlug))
	}

	public := make([]*models.PublicQuizQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, q.PublicView())
	}
	return public, nil
}

// SubmitQuiz grades a submission, records the result and runs gamification.
func (s *quizService) SubmitQuiz(ctx context.Context, req *QuizSubmission) (*QuizSubmissionResult, error) {
	if len(req.Answers) == 0 {
		return nil, NewValidationError("submission must contain at least one answer", nil)
	}
	if _, err := s.requireTopic(ctx, req.TopicSlug); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(req.Answers))
	seen := make(map[int64]bool, len(req.Answers))
	for _, answer := range req.Answers {
		if seen[answer.QuestionID] {
			return nil, NewValidationError(
				fmt.Sprintf("duplicate answer for question %d", answer.QuestionID), nil)
		}
		seen[answer.QuestionID] = true
		ids = append(ids, answer.QuestionID)
	}

	questions, err := s.quizzes.GetQuestionsByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load questions for grading", zap.Error(err))
		return nil, NewServiceUnavailableError("quiz storage unavailable")
	}
	byID := make(map[int64]*models.QuizQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	correct := 0
	outcomes := make([]models.QuestionOutcome, 0, len(req.Answers))
	for _, answer := range req.Answers {
		question, ok := byID[answer.QuestionID]
		if !ok || question.TopicSlug != req.TopicSlug {
			return nil, NewValidationError(
				fmt.Sprintf("question %d does not belong to topic %s", answer.QuestionID, req.TopicSlug), nil)
		}
		isCorrect := answer.SelectedIndex == question.CorrectIndex
		if isCorrect {
			correct++
		}
		outcomes = append(outcomes, models.QuestionOutcome{
			QuestionID:   question.ID,
			Correct:      isCorrect,
			CorrectIndex: question.CorrectIndex,
			Explanation:  question.Explanation,
		})
	}

	score := float64(correct) / float64(len(req.Answers)) * 100
	score = math.Round(score*100) / 100

	result := &models.QuizResult{
		UserID:         req.UserID,
		TopicSlug:      req.TopicSlug,
		Score:          score,
		Passed:         score >= models.QuizPassScore,
		TotalQuestions: len(req.Answers),
		CorrectCount:   correct,
	}
	if err := s.quizzes.InsertResult(ctx, result); err != nil {
		s.logger.Error("Failed to record quiz result", zap.Error(err), zap.Int64("user_id", req.UserID))
		return nil, NewServiceUnavailableError("quiz storage unavailable")
	}

	s.logger.Info("Quiz submitted",
		zap.Int64("user_id", req.UserID),
		zap.String("topic_slug", req.TopicSlug),
		zap.Float64("score", score),
		zap.Bool("passed", result.Passed),
	)

	outcome, err := s.gamification.RecordAction(ctx, req.UserID, ActionQuizCompleted, &ActionPayload{Score: &score})
	if err != nil {
		return nil, err
	}

	return &QuizSubmissionResult{
		Result:       result,
		Outcomes:     outcomes,
		Gamification: outcome,
	}, nil
}

// GetHistory returns the user's recent quiz results.
func (s *quizService) GetHistory(ctx context.Context, userID int64, limit int) ([]*models.QuizResult, error) {
	results, err := s.quizzes.ListResultsByUser(ctx, userID, limit)
	if err != nil {
		s.logger.Error("Failed to load quiz history", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewServiceUnavailableError("quiz storage unavailable")
	}
	return results, nil
}

// ===============================
// QUESTION BANK (ADMIN)
// ===============================

func (s *quizService) buildQuestion(req *QuestionRequest) (*models.QuizQuestion, error) {
	if req.CorrectIndex < 0 || req.CorrectIndex >= len(req.Options) {
		return nil, NewValidationError("correct_index must point at one of the options", nil)
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	return &models.QuizQuestion{
		TopicSlug:    req.TopicSlug,
		Difficulty:   difficulty,
		Prompt:       req.Prompt,
		Options:      models.StringSlice(req.Options),
		CorrectIndex: req.CorrectIndex,
		Explanation:  req.Explanation,
	}, nil
}

// CreateQuestion adds a question to the bank.
func (s *quizService) CreateQuestion(ctx context.Context, req *QuestionRequest) (*models.QuizQuestion, error) {
	if _, err := s.requireTopic(ctx, req.TopicSlug); err != nil {
		return nil, err
	}
	question, err := s.buildQuestion(req)
	if err != nil {
		return nil, err
	}
	if err := s.quizzes.CreateQuestion(ctx, question); err != nil {
		s.logger.Error("Failed to create question", zap.Error(err))
		return nil, NewServiceUnavailableError("quiz storage unavailable")
	}
	return question, nil
}

// UpdateQuestion replaces an existing question.
func (s *quizService) UpdateQuestion(ctx context.Context, id int64, req *QuestionRequest) (*models.QuizQuestion, error) {
	if _, err := s.requireTopic(ctx, req.TopicSlug); err != nil {
		return nil, err
	}
	question, err := s.buildQuestion(req)
	if err != nil {
		return nil, err
	}
	question.ID = id
	if err := s.quizzes.UpdateQuestion(ctx, question); err != nil {
		s.logger.Error("Failed to update question", zap.Error(err), zap.Int64("question_id", id))
		return nil, EntityNotFoundError("question", id)
	}
	return question, nil
}

// DeleteQuestion removes a question from the bank.
func (s *quizService) DeleteQuestion(ctx context.Context, id int64) error {
	if err := s.quizzes.DeleteQuestion(ctx, id); err != nil {
		s.logger.Error("Failed to delete question", zap.Error(err), zap.Int64("question_id", id))
		return EntityNotFoundError("question", id)
	}
	return nil
}

func (s *quizService) requireTopic(ctx context.Context, slug string) (*models.Topic, error) {
	topic, err := s.catalog.GetTopicBySlug(ctx, slug)
	if err != nil {
		s.logger.Error("Failed to load topic", zap.Error(err), zap.String("topic_slug", slug))
		return nil, NewServiceUnavailableError("catalog unavailable")
	}
	if topic == nil {
		return nil, EntityNotFoundError("topic", slug)
	}
	return topic, nil
}
