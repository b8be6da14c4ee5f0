package grading

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestGrader(client *fakeChatClient, doc *fakeDocument) (*Grader, *fakeTranscriber) {
	vision := &fakeTranscriber{responses: []string{"page one", "page two", "page three"}}
	extractor := NewExtractor(vision, testLogger())
	if doc != nil {
		extractor.open = func([]byte) (Document, error) { return doc, nil }
	}

	var scorer *Scorer
	if client != nil {
		scorer = NewScorer(client, "maverick", testLogger())
	} else {
		scorer = NewScorer(nil, "maverick", testLogger())
	}

	return NewGrader(extractor, scorer, testLogger()), vision
}

func TestGraderPlainTextSubmission(t *testing.T) {
	client := &fakeChatClient{
		jsonResponse: `{"score": 92, "feedback": {"Accuracy": "Spot on", "Clarity": "Readable"}}`,
	}
	grader, vision := newTestGrader(client, nil)

	result := grader.Grade(context.Background(), []byte("my answer"), "answer.txt", "the key")
	require.Equal(t, 92, result.Score)
	require.Equal(t, "Spot on", result.Feedback["Accuracy"])
	require.False(t, result.Degraded())
	require.Zero(t, vision.calls)
}

func TestGraderScannedPDFSubmission(t *testing.T) {
	client := &fakeChatClient{
		jsonResponse: `{"score": 78, "feedback": {"Accuracy": "Mostly right", "Clarity": "Messy handwriting"}}`,
	}
	doc := &fakeDocument{pages: []string{"", "", ""}}
	grader, vision := newTestGrader(client, doc)

	result := grader.Grade(context.Background(), []byte("%PDF"), "scan.pdf", "the key")
	require.Equal(t, 78, result.Score)
	require.Equal(t, 3, vision.calls)
	require.Equal(t, 1, client.jsonCalls)
}

func TestGraderUnreadableFileStillCompletes(t *testing.T) {
	client := &fakeChatClient{jsonResponse: `{"score": 50, "feedback": {}}`}
	grader, _ := newTestGrader(client, nil)
	// An empty text file extracts to an empty transcript, which the scorer
	// recognizes without spending a remote call.
	result := grader.Grade(context.Background(), []byte("   "), "blank.txt", "the key")
	require.Equal(t, 0, result.Score)
	require.Equal(t, "Empty text. Could not read file.", result.Feedback["Error"])
	require.True(t, result.Degraded())
	require.Zero(t, client.jsonCalls)
}

func TestGraderUnconfiguredAlwaysWellFormed(t *testing.T) {
	grader, _ := newTestGrader(nil, nil)

	result := grader.Grade(context.Background(), []byte("my answer"), "answer.txt", "the key")
	require.Equal(t, 0, result.Score)
	require.NotNil(t, result.Feedback)
	require.Equal(t, "AI unavailable", result.Feedback["Error"])
}

func TestGraderIdempotentWithDeterministicBackend(t *testing.T) {
	client := &fakeChatClient{
		jsonResponse: `{"score": 64, "feedback": {"Accuracy": "Half right", "Clarity": "Fine"}}`,
	}
	grader, _ := newTestGrader(client, nil)

	first := grader.Grade(context.Background(), []byte("same input"), "answer.txt", "same key")
	second := grader.Grade(context.Background(), []byte("same input"), "answer.txt", "same key")
	require.Equal(t, first, second)
}
