package grading

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/classboard-dev/classboard-api/pkg/ai"
)

// VisionClient transcribes images through a remote vision-capable model.
// A nil chat client means no credential is configured: transcription is then
// a disabled feature and every call returns the empty string without a
// network round trip.
type VisionClient struct {
	client ai.ChatClient
	model  string
	logger zerolog.Logger
}

// NewVisionClient constructs a vision transcriber. client may be nil.
func NewVisionClient(client ai.ChatClient, model string, logger zerolog.Logger) *VisionClient {
	return &VisionClient{
		client: client,
		model:  model,
		logger: logger.With().Str("component", "vision_client").Logger(),
	}
}

// Transcribe returns the visible text of one image. Remote failures are
// returned as errors so the cascade can account for them; they never
// propagate past the extraction boundary.
func (v *VisionClient) Transcribe(ctx context.Context, mimeType string, image []byte) (string, error) {
	if v.client == nil {
		return "", nil
	}

	text, err := v.client.TranscribeImage(ctx, v.model, mimeType, image)
	if err != nil {
		v.logger.Warn().Err(err).Msg("vision transcription failed")
		return "", err
	}
	return text, nil
}
