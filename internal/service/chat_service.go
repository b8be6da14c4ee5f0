package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/classboard-dev/classboard-api/internal/dto"
	"github.com/classboard-dev/classboard-api/pkg/ai"
)

// ErrChatUnavailable indicates no remote model credential is configured.
var ErrChatUnavailable = errors.New("study assistant is not configured")

const chatSystemPrompt = "You are a patient teaching assistant for school students. " +
	"Explain concepts step by step, keep answers short, and never just give away " +
	"answers to graded work."

// ChatService answers student questions with the reasoning model.
type ChatService interface {
	Ask(ctx context.Context, payload dto.ChatRequest) (dto.ChatResponse, error)
}

type chatService struct {
	client    ai.ChatClient
	model     string
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewChatService builds the study-assistant service. A nil client puts
// the service into an unavailable state rather than failing startup.
func NewChatService(client ai.ChatClient, model string, validate *validator.Validate, logger zerolog.Logger) ChatService {
	return &chatService{
		client:    client,
		model:     model,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "chat_service").Logger(),
	}
}

func (s *chatService) Ask(ctx context.Context, payload dto.ChatRequest) (dto.ChatResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ChatResponse{}, err
	}

	if s.client == nil {
		return dto.ChatResponse{}, ErrChatUnavailable
	}

	message := strings.TrimSpace(s.sanitizer.Sanitize(payload.Message))
	if message == "" {
		return dto.ChatResponse{}, errors.New("message is empty after sanitization")
	}

	reply, err := s.client.CompleteText(ctx, s.model, chatSystemPrompt, message)
	if err != nil {
		s.logger.Error().Err(err).Msg("chat completion failed")
		return dto.ChatResponse{}, err
	}

	return dto.ChatResponse{Reply: reply}, nil
}
