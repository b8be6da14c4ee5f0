package grading

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeChatClient struct {
	textResponse string
	textErr      error
	textCalls    int

	jsonResponse string
	jsonErr      error
	jsonCalls    int
	lastPrompt   string

	visionResponse string
	visionErr      error
	visionCalls    int
}

func (f *fakeChatClient) CompleteText(_ context.Context, _, _, _ string) (string, error) {
	f.textCalls++
	return f.textResponse, f.textErr
}

func (f *fakeChatClient) CompleteJSON(_ context.Context, _, prompt string) (string, error) {
	f.jsonCalls++
	f.lastPrompt = prompt
	return f.jsonResponse, f.jsonErr
}

func (f *fakeChatClient) TranscribeImage(_ context.Context, _, _ string, _ []byte) (string, error) {
	f.visionCalls++
	return f.visionResponse, f.visionErr
}

func TestScorerUnconfiguredCredential(t *testing.T) {
	s := NewScorer(nil, "maverick", testLogger())

	result := s.Score(context.Background(), "a fine answer", "the key")
	require.Equal(t, 0, result.Score)
	require.Equal(t, map[string]string{"Error": "AI unavailable"}, result.Feedback)
}

func TestScorerEmptyTranscriptShortCircuits(t *testing.T) {
	client := &fakeChatClient{jsonResponse: `{"score": 99, "feedback": {}}`}
	s := NewScorer(client, "maverick", testLogger())

	for _, transcript := range []string{"", "   ", "\n\t "} {
		result := s.Score(context.Background(), transcript, "the key")
		require.Equal(t, 0, result.Score)
		require.Equal(t, map[string]string{"Error": "Empty text. Could not read file."}, result.Feedback)
	}
	require.Zero(t, client.jsonCalls, "empty transcript must not reach the remote model")
}

func TestScorerRoundTrip(t *testing.T) {
	client := &fakeChatClient{
		jsonResponse: `{"score": 87, "feedback": {"Accuracy": "Good", "Clarity": "Clear"}}`,
	}
	s := NewScorer(client, "maverick", testLogger())

	result := s.Score(context.Background(), "student answer", "answer key")
	require.Equal(t, 87, result.Score)
	require.Equal(t, map[string]string{"Accuracy": "Good", "Clarity": "Clear"}, result.Feedback)
	require.Equal(t, 1, client.jsonCalls)
	require.Contains(t, client.lastPrompt, "answer key")
	require.Contains(t, client.lastPrompt, "student answer")
}

func TestScorerKeepsExtraFeedbackKeys(t *testing.T) {
	client := &fakeChatClient{
		jsonResponse: `{"score": 55, "feedback": {"Accuracy": "Fair", "Clarity": "Ok", "Effort": "Visible"}}`,
	}
	s := NewScorer(client, "maverick", testLogger())

	result := s.Score(context.Background(), "answer", "key")
	require.Equal(t, 55, result.Score)
	require.Equal(t, "Visible", result.Feedback["Effort"])
}

func TestScorerMalformedResponses(t *testing.T) {
	cases := map[string]string{
		"not json":          "grade: A+",
		"missing score":     `{"feedback": {"Accuracy": "Good"}}`,
		"missing feedback":  `{"score": 70}`,
		"null feedback":     `{"score": 70, "feedback": null}`,
		"feedback not text": `{"score": 70, "feedback": {"Accuracy": 5}}`,
		"score not number":  `{"score": "seventy", "feedback": {}}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			client := &fakeChatClient{jsonResponse: raw}
			s := NewScorer(client, "maverick", testLogger())

			result := s.Score(context.Background(), "answer", "key")
			require.Equal(t, 0, result.Score)
			require.Equal(t, map[string]string{"Error": "Grading failed"}, result.Feedback)
		})
	}
}

func TestScorerRemoteFailure(t *testing.T) {
	client := &fakeChatClient{jsonErr: errors.New("connection reset")}
	s := NewScorer(client, "maverick", testLogger())

	result := s.Score(context.Background(), "answer", "key")
	require.Equal(t, 0, result.Score)
	require.Equal(t, map[string]string{"Error": "Grading failed"}, result.Feedback)
}

func TestScorerClampsOutOfRangeScores(t *testing.T) {
	client := &fakeChatClient{jsonResponse: `{"score": 150, "feedback": {"Accuracy": "Generous"}}`}
	s := NewScorer(client, "maverick", testLogger())

	result := s.Score(context.Background(), "answer", "key")
	require.Equal(t, 100, result.Score)

	client.jsonResponse = `{"score": -5, "feedback": {"Accuracy": "Harsh"}}`
	result = s.Score(context.Background(), "answer", "key")
	require.Equal(t, 0, result.Score)
}

func TestKeyGeneratorUnconfigured(t *testing.T) {
	k := NewKeyGenerator(nil, "maverick", testLogger())
	require.Equal(t, "Error: Server AI is not configured.", k.Generate(context.Background(), "questions"))
}

func TestKeyGeneratorReturnsKey(t *testing.T) {
	client := &fakeChatClient{textResponse: "1. Paris\n2. 42"}
	k := NewKeyGenerator(client, "maverick", testLogger())

	key := k.Generate(context.Background(), "1. Capital of France?\n2. Answer to everything?")
	require.Equal(t, "1. Paris\n2. 42", key)
	require.Equal(t, 1, client.textCalls)
}
