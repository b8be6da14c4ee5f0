package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	chatDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "classboard",
		Subsystem: "ai",
		Name:      "chat_duration_seconds",
		Help:      "Duration of remote model requests",
	}, []string{"model", "kind"})

	chatFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "classboard",
		Subsystem: "ai",
		Name:      "chat_failures_total",
		Help:      "Number of failed remote model requests",
	}, []string{"model", "kind"})
)

// GroqConfig defines configuration options for the Groq chat client.
type GroqConfig struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
	Logger         zerolog.Logger
}

// GroqClient implements ChatClient against Groq's OpenAI-compatible API.
type GroqClient struct {
	client  *openai.Client
	timeout time.Duration
	tracer  trace.Tracer
	logger  zerolog.Logger
}

// NewGroqClient builds a chat client using the provided configuration.
func NewGroqClient(cfg GroqConfig) (*GroqClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq api key is required")
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 90 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &GroqClient{
		client:  openai.NewClientWithConfig(clientConfig),
		timeout: cfg.RequestTimeout,
		tracer:  otel.Tracer("github.com/classboard-dev/classboard-api/pkg/ai"),
		logger:  cfg.Logger.With().Str("component", "groq_client").Logger(),
	}, nil
}

// CompleteText runs a plain chat completion and returns the reply text.
func (g *GroqClient) CompleteText(ctx context.Context, model, system, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	return g.complete(ctx, "text", openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	})
}

// CompleteJSON runs a chat completion in JSON mode.
func (g *GroqClient) CompleteJSON(ctx context.Context, model, prompt string) (string, error) {
	return g.complete(ctx, "json", openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
}

// TranscribeImage sends an image as a base64 data URL to the vision model.
// The instruction asks for a literal transcription because downstream
// scoring depends on transcript purity.
func (g *GroqClient) TranscribeImage(ctx context.Context, model, mimeType string, image []byte) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	return g.complete(ctx, "vision", openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Transcribe the text in this image exactly. Do not add commentary.",
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
	})
}

func (g *GroqClient) complete(parent context.Context, kind string, request openai.ChatCompletionRequest) (string, error) {
	ctx, span := g.tracer.Start(parent, "groq.complete", trace.WithAttributes(
		attribute.String("model", request.Model),
		attribute.String("kind", kind),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, request)
	chatDuration.WithLabelValues(request.Model, kind).Observe(time.Since(start).Seconds())
	if err != nil {
		chatFailures.WithLabelValues(request.Model, kind).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("groq %s completion: %w", kind, err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from model %s", request.Model)
		chatFailures.WithLabelValues(request.Model, kind).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
