// file: internal/services/quiz_service_test.go
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
)

type quizFixture struct {
	service QuizService
	quizzes *fakeQuizRepo
	catalog *fakeCatalogRepo
	stats   *fakeStatsRepo
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	quizzes := newFakeQuizRepo()
	catalog := newFakeCatalogRepo("percentages", "ratios")
	stats := newFakeStatsRepo()
	gamification := NewGamificationService(
		stats, newFakeBadgeRepo(), quizzes, newMemoryCache(),
		&config.CacheConfig{LeaderboardTTL: time.Minute}, logger,
	)

	return &quizFixture{
		service: NewQuizService(quizzes, catalog, gamification, logger),
		quizzes: quizzes,
		catalog: catalog,
		stats:   stats,
	}
}

func (f *quizFixture) seedQuestions(t *testing.T, topicSlug string, count int) []*models.QuizQuestion {
	t.Helper()
	questions := make([]*models.QuizQuestion, 0, count)
	for i := 0; i < count; i++ {
		q := f.quizzes.addQuestion(&models.QuizQuestion{
			TopicSlug:    topicSlug,
			Difficulty:   "medium",
			Prompt:       "What is 10% of 50?",
			Options:      models.StringSlice{"2", "5", "10", "15"},
			CorrectIndex: 1,
			Explanation:  "10% of 50 is 50 * 0.10 = 5.",
		})
		questions = append(questions, q)
	}
	return questions
}

func TestGetQuizStripsAnswerKey(t *testing.T) {
	f := newQuizFixture(t)
	f.seedQuestions(t, "percentages", 3)

	questions, err := f.service.GetQuiz(context.Background(), &QuizRequest{TopicSlug: "percentages"})
	require.NoError(t, err)

	require.Len(t, questions, 3)
	for _, q := range questions {
		assert.Equal(t, "percentages", q.TopicSlug)
		assert.Len(t, q.Options, 4)
	}
}

func TestGetQuizUnknownTopic(t *testing.T) {
	f := newQuizFixture(t)

	_, err := f.service.GetQuiz(context.Background(), &QuizRequest{TopicSlug: "calculus"})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", GetServiceError(err).Type)
}

func TestGetQuizEmptyBank(t *testing.T) {
	f := newQuizFixture(t)

	_, err := f.service.GetQuiz(context.Background(), &QuizRequest{TopicSlug: "ratios"})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", GetServiceError(err).Type)
}

func TestSubmitQuizAllCorrect(t *testing.T) {
	f := newQuizFixture(t)
	questions := f.seedQuestions(t, "percentages", 4)

	submission := &QuizSubmission{UserID: 1, TopicSlug: "percentages"}
	for _, q := range questions {
		submission.Answers = append(submission.Answers, QuizAnswer{QuestionID: q.ID, SelectedIndex: q.CorrectIndex})
	}

	result, err := f.service.SubmitQuiz(context.Background(), submission)
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Result.Score)
	assert.True(t, result.Result.Passed)
	assert.Equal(t, 4, result.Result.CorrectCount)
	require.Len(t, result.Outcomes, 4)
	for _, outcome := range result.Outcomes {
		assert.True(t, outcome.Correct)
		assert.NotEmpty(t, outcome.Explanation)
	}

	// A perfect score lands in the top reward tier.
	require.NotNil(t, result.Gamification)
	assert.Equal(t, 25, result.Gamification.Points.PointsGained)
	assert.Len(t, f.quizzes.results, 1)
}

func TestSubmitQuizScoreRounding(t *testing.T) {
	f := newQuizFixture(t)
	questions := f.seedQuestions(t, "percentages", 3)

	submission := &QuizSubmission{
		UserID:    1,
		TopicSlug: "percentages",
		Answers: []QuizAnswer{
			{QuestionID: questions[0].ID, SelectedIndex: questions[0].CorrectIndex},
			{QuestionID: questions[1].ID, SelectedIndex: 0},
			{QuestionID: questions[2].ID, SelectedIndex: 0},
		},
	}

	result, err := f.service.SubmitQuiz(context.Background(), submission)
	require.NoError(t, err)

	assert.Equal(t, 33.33, result.Result.Score)
	assert.False(t, result.Result.Passed)
}

func TestSubmitQuizPassBoundary(t *testing.T) {
	f := newQuizFixture(t)
	questions := f.seedQuestions(t, "percentages", 10)

	submission := &QuizSubmission{UserID: 1, TopicSlug: "percentages"}
	for i, q := range questions {
		selected := q.CorrectIndex
		if i >= 7 {
			selected = 0
		}
		submission.Answers = append(submission.Answers, QuizAnswer{QuestionID: q.ID, SelectedIndex: selected})
	}

	result, err := f.service.SubmitQuiz(context.Background(), submission)
	require.NoError(t, err)

	assert.Equal(t, 70.0, result.Result.Score)
	assert.True(t, result.Result.Passed, "exactly the pass score must pass")
	assert.Equal(t, 15, result.Gamification.Points.PointsGained)
}

func TestSubmitQuizEmptyAnswersRejected(t *testing.T) {
	f := newQuizFixture(t)

	_, err := f.service.SubmitQuiz(context.Background(), &QuizSubmission{UserID: 1, TopicSlug: "percentages"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", GetServiceError(err).Type)
}

func TestSubmitQuizDuplicateAnswerRejected(t *testing.T) {
	f := newQuizFixture(t)
	questions := f.seedQuestions(t, "percentages", 1)

	submission := &QuizSubmission{
		UserID:    1,
		TopicSlug: "percentages",
		Answers: []QuizAnswer{
			{QuestionID: questions[0].ID, SelectedIndex: 1},
			{QuestionID: questions[0].ID, SelectedIndex: 2},
		},
	}

	_, err := f.service.SubmitQuiz(context.Background(), submission)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", GetServiceError(err).Type)
	assert.Empty(t, f.quizzes.results)
}

func TestSubmitQuizCrossTopicQuestionRejected(t *testing.T) {
	f := newQuizFixture(t)
	other := f.seedQuestions(t, "ratios", 1)

	submission := &QuizSubmission{
		UserID:    1,
		TopicSlug: "percentages",
		Answers:   []QuizAnswer{{QuestionID: other[0].ID, SelectedIndex: 1}},
	}

	_, err := f.service.SubmitQuiz(context.Background(), submission)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", GetServiceError(err).Type)
}

func TestSubmitQuizUnknownQuestionRejected(t *testing.T) {
	f := newQuizFixture(t)

	submission := &QuizSubmission{
		UserID:    1,
		TopicSlug: "percentages",
		Answers:   []QuizAnswer{{QuestionID: 999, SelectedIndex: 0}},
	}

	_, err := f.service.SubmitQuiz(context.Background(), submission)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", GetServiceError(err).Type)
}

func TestGetHistory(t *testing.T) {
	f := newQuizFixture(t)
	questions := f.seedQuestions(t, "percentages", 1)

	submission := &QuizSubmission{
		UserID:    1,
		TopicSlug: "percentages",
		Answers:   []QuizAnswer{{QuestionID: questions[0].ID, SelectedIndex: questions[0].CorrectIndex}},
	}
	_, err := f.service.SubmitQuiz(context.Background(), submission)
	require.NoError(t, err)

	history, err := f.service.GetHistory(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "percentages", history[0].TopicSlug)
}

func TestCreateQuestionValidatesCorrectIndex(t *testing.T) {
	f := newQuizFixture(t)

	req := &QuestionRequest{
		TopicSlug:    "percentages",
		Prompt:       "What is 20% of 80?",
		Options:      []string{"12", "16", "20"},
		CorrectIndex: 3,
	}

	_, err := f.service.CreateQuestion(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", GetServiceError(err).Type)
}

func TestCreateQuestionDefaultsDifficulty(t *testing.T) {
	f := newQuizFixture(t)

	req := &QuestionRequest{
		TopicSlug:    "percentages",
		Prompt:       "What is 20% of 80?",
		Options:      []string{"12", "16", "20"},
		CorrectIndex: 1,
	}

	question, err := f.service.CreateQuestion(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "medium", question.Difficulty)
	assert.NotZero(t, question.ID)
}

func TestUpdateQuestionMissing(t *testing.T) {
	f := newQuizFixture(t)

	req := &QuestionRequest{
		TopicSlug:    "percentages",
		Prompt:       "What is 20% of 80?",
		Options:      []string{"12", "16", "20"},
		CorrectIndex: 1,
	}

	_, err := f.service.UpdateQuestion(context.Background(), 42, req)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", GetServiceError(err).Type)
}

func TestDeleteQuestion(t *testing.T) {
	f := newQuizFixture(t)
	questions := f.seedQuestions(t, "percentages", 1)

	require.NoError(t, f.service.DeleteQuestion(context.Background(), questions[0].ID))

	err := f.service.DeleteQuestion(context.Background(), questions[0].ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", GetServiceError(err).Type)
}
