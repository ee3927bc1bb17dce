// file: internal/services/tutor_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"quantlearn/internal/config"
	"quantlearn/internal/models"
)

// tutorSystemPrompt frames every conversation sent to the model.
const tutorSystemPrompt = "You are a patient quantitative aptitude tutor. " +
	"Explain concepts step by step, show the working for every calculation, " +
	"and keep answers focused on quantitative reasoning, arithmetic, algebra, " +
	"percentages, ratios, and data interpretation."

// tutorService implements TutorService over the OpenRouter
// chat-completions API.
type tutorService struct {
	cfg          *config.TutorConfig
	client       *http.Client
	gamification GamificationService
	logger       *zap.Logger
}

// NewTutorService creates the AI tutor service.
func NewTutorService(cfg *config.TutorConfig, gamification GamificationService, logger *zap.Logger) TutorService {
	return &tutorService{
		cfg:          cfg,
		client:       &http.Client{Timeout: cfg.Timeout},
		gamification: gamification,
		logger:       logger,
	}
}

// chatCompletionRequest is the OpenAI-style request body OpenRouter accepts.
type chatCompletionRequest struct {
	Model    string               `json:"model"`
	Messages []models.ChatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message models.ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

// Chat forwards the conversation to the tutor model and records the exchange
// for gamification.
func (s *tutorService) Chat(ctx context.Context, req *TutorRequest) (*models.TutorReply, error) {
	if s.cfg.APIKey == "" {
		return nil, NewServiceUnavailableError("tutor service is not configured")
	}
	if len(req.Messages) == 0 {
		return nil, NewValidationError("at least one message is required", nil)
	}

	model := req.Model
	if model == "" {
		model = s.cfg.DefaultModel
	}

	messages := make([]models.ChatMessage, 0, len(req.Messages)+1)
	messages = append(messages, models.ChatMessage{
		Role:    models.ChatRoleSystem,
		Content: tutorSystemPrompt,
	})
	messages = append(messages, req.Messages...)

	reply, err := s.complete(ctx, model, messages)
	if err != nil {
		return nil, err
	}

	points := 0
	outcome, err := s.gamification.RecordAction(ctx, req.UserID, ActionChatMessage, nil)
	if err != nil {
		// The exchange already happened; do not fail it over a reward miss.
		s.logger.Warn("Failed to record chat action", zap.Error(err), zap.Int64("user_id", req.UserID))
	} else if outcome.Points != nil {
		points = outcome.Points.PointsGained
	}

	return &models.TutorReply{
		Message:      *reply,
		Model:        model,
		PointsGained: points,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// complete performs the upstream call with exponential backoff. Client errors
// are permanent; only transport failures and 5xx responses are retried.
func (s *tutorService) complete(ctx context.Context, model string, messages []models.ChatMessage) (*models.ChatMessage, error) {
	body, err := json.Marshal(chatCompletionRequest{Model: model, Messages: messages})
	if err != nil {
		s.logger.Error("Failed to encode chat request", zap.Error(err))
		return nil, NewInternalError("failed to build tutor request")
	}

	url := s.cfg.BaseURL + "/chat/completions"
	var reply *models.ChatMessage
	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
		httpReq.Header.Set("X-Title", s.cfg.AppTitle)

		resp, err := s.client.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return err
		}

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("tutor upstream returned status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("tutor upstream returned status %d", resp.StatusCode))
		}

		var parsed chatCompletionResponse
		if err := json.Unmarshal(data, &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode tutor response: %w", err))
		}
		if parsed.Error != nil {
			return backoff.Permanent(fmt.Errorf("tutor upstream error: %s", parsed.Error.Message))
		}
		if len(parsed.Choices) == 0 {
			return backoff.Permanent(fmt.Errorf("tutor upstream returned no choices"))
		}
		reply = &parsed.Choices[0].Message
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = s.cfg.Timeout
	err = backoff.RetryNotify(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.cfg.MaxRetries)), ctx),
		func(err error, d time.Duration) {
			s.logger.Warn("Tutor request attempt failed",
				zap.String("model", model),
				zap.Error(err),
				zap.Duration("backoff", d))
		},
	)
	if err != nil {
		s.logger.Error("All tutor request attempts failed",
			zap.String("model", model),
			zap.Int("attempts", s.cfg.MaxRetries),
			zap.Error(err))
		return nil, NewServiceUnavailableError("tutor service is currently unavailable")
	}
	return reply, nil
}
