package ai

import "context"

// ChatClient describes the remote-model operations the application needs.
// Callers hold this interface so tests can substitute a fake backend.
type ChatClient interface {
	// CompleteText runs a plain chat completion and returns the reply text.
	CompleteText(ctx context.Context, model, system, prompt string) (string, error)
	// CompleteJSON runs a chat completion in JSON mode and returns the raw
	// JSON document produced by the model.
	CompleteJSON(ctx context.Context, model, prompt string) (string, error)
	// TranscribeImage sends an image to a vision-capable model and returns
	// the transcript of its visible text.
	TranscribeImage(ctx context.Context, model, mimeType string, image []byte) (string, error)
}
