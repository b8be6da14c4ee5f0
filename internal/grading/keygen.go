package grading

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/classboard-dev/classboard-api/pkg/ai"
)

// KeyGenerator asks the reasoning model to solve a questionnaire and produce
// a reference answer key. Failures are reported in-band as an "Error: ..."
// string rather than an error return.
type KeyGenerator struct {
	client ai.ChatClient
	model  string
	logger zerolog.Logger
}

// NewKeyGenerator constructs a KeyGenerator. client may be nil.
func NewKeyGenerator(client ai.ChatClient, model string, logger zerolog.Logger) *KeyGenerator {
	return &KeyGenerator{
		client: client,
		model:  model,
		logger: logger.With().Str("component", "key_generator").Logger(),
	}
}

// Generate returns an answer key for the given questionnaire text.
func (k *KeyGenerator) Generate(ctx context.Context, questionText string) string {
	if k.client == nil {
		return "Error: Server AI is not configured."
	}

	key, err := k.client.CompleteText(ctx, k.model, "", "Solve and create an Answer Key for:\n"+questionText)
	if err != nil {
		k.logger.Warn().Err(err).Msg("answer key generation failed")
		return "Error: " + err.Error()
	}
	return key
}
