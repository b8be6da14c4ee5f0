package grading

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"

	"github.com/classboard-dev/classboard-api/pkg/ai"
)

// scoreResponseSchema pins down the shape the reasoning model is instructed
// to return. Anything that deviates is treated as a grading failure.
const scoreResponseSchema = `{
	"type": "object",
	"required": ["score", "feedback"],
	"properties": {
		"score": {"type": "number"},
		"feedback": {
			"type": "object",
			"additionalProperties": {"type": "string"}
		}
	}
}`

var scoreSchema = jsonschema.MustCompileString("score_response.json", scoreResponseSchema)

// Scorer compares a student transcript against a reference answer key and
// produces a Result. It never returns an error: every failure mode collapses
// to a sentinel Result with an explanatory feedback entry.
type Scorer struct {
	client ai.ChatClient
	model  string
	logger zerolog.Logger
}

// NewScorer constructs a Scorer. client may be nil when no credential is
// configured, in which case every call returns the "AI unavailable" sentinel.
func NewScorer(client ai.ChatClient, model string, logger zerolog.Logger) *Scorer {
	return &Scorer{
		client: client,
		model:  model,
		logger: logger.With().Str("component", "scorer").Logger(),
	}
}

// Score grades a transcript against an answer key. An empty or
// whitespace-only transcript short-circuits before any remote call: it is the
// primary signal that extraction produced nothing usable.
func (s *Scorer) Score(ctx context.Context, transcript, answerKey string) Result {
	if s.client == nil {
		return errorResult(msgAIUnavailable)
	}

	if strings.TrimSpace(transcript) == "" {
		return errorResult(msgEmptyText)
	}

	raw, err := s.client.CompleteJSON(ctx, s.model, scoringPrompt(answerKey, transcript))
	if err != nil {
		s.logger.Warn().Err(err).Msg("scoring request failed")
		return errorResult(msgGradingFailed)
	}

	return s.parseScoreResponse(raw)
}

func scoringPrompt(answerKey, transcript string) string {
	return fmt.Sprintf(`Compare Student Answer to Answer Key.
Key: %s
Student: %s
Return STRICT JSON: {"score": <integer 0-100>, "feedback": {"Accuracy": "...", "Clarity": "..."}}`, answerKey, transcript)
}

func (s *Scorer) parseScoreResponse(raw string) Result {
	var decoded interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		s.logger.Warn().Err(err).Msg("model returned non-JSON scoring response")
		return errorResult(msgGradingFailed)
	}

	if err := scoreSchema.Validate(decoded); err != nil {
		s.logger.Warn().Err(err).Msg("scoring response failed schema validation")
		return errorResult(msgGradingFailed)
	}

	score := int(gjson.Get(raw, "score").Int())
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	feedback := make(map[string]string)
	gjson.Get(raw, "feedback").ForEach(func(key, value gjson.Result) bool {
		feedback[key.String()] = value.String()
		return true
	})

	return Result{Score: score, Feedback: feedback}
}
