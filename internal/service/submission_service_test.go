package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classboard-dev/classboard-api/internal/grading"
	"github.com/classboard-dev/classboard-api/internal/models"
	"github.com/classboard-dev/classboard-api/pkg/ai"
)

func newTestSubmissionService(client *stubChatClient) (SubmissionService, *memorySubmissionRepo, *memoryAssignmentRepo) {
	submissions := newMemorySubmissionRepo()
	assignments := newMemoryAssignmentRepo()

	var chat ai.ChatClient
	if client != nil {
		chat = client
	}

	vision := grading.NewVisionClient(chat, "vision-model", testLogger())
	extractor := grading.NewExtractor(vision, testLogger())
	scorer := grading.NewScorer(chat, "reasoning-model", testLogger())
	grader := grading.NewGrader(extractor, scorer, testLogger())

	svc := NewSubmissionService(submissions, assignments, grader, testLogger(), 5)
	return svc, submissions, assignments
}

func seedAssignment(t *testing.T, assignments *memoryAssignmentRepo, answerKey string) uint {
	t.Helper()
	assignment := models.Assignment{
		Title:       "Trigonometry worksheet",
		ClassName:   "10",
		Division:    "A",
		SubjectName: "Mathematics",
		TeacherID:   7,
		AnswerKey:   answerKey,
	}
	require.NoError(t, assignments.Create(context.Background(), &assignment))
	return assignment.ID
}

func TestSubmitGradesTextFile(t *testing.T) {
	chat := &stubChatClient{jsonResponse: `{"score": 88, "feedback": {"Accuracy": "Mostly right"}}`}
	svc, stored, assignments := newTestSubmissionService(chat)
	assignmentID := seedAssignment(t, assignments, "sin(30) = 0.5")

	fh := newTestFileHeader(t, "answers.txt", []byte("sin(30) = 0.5"))
	resp, err := svc.Submit(context.Background(), 3, assignmentID, fh)
	require.NoError(t, err)
	require.Equal(t, 88, resp.Score)
	require.Equal(t, "Mostly right", resp.Feedback["Accuracy"])

	saved, err := stored.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Equal(t, 88, saved.Score)
	require.NotEmpty(t, saved.SubmittedFile)
}

func TestSubmitWithoutCredentialStillPersists(t *testing.T) {
	svc, stored, assignments := newTestSubmissionService(nil)
	assignmentID := seedAssignment(t, assignments, "sin(30) = 0.5")

	fh := newTestFileHeader(t, "answers.txt", []byte("sin(30) = 0.5"))
	resp, err := svc.Submit(context.Background(), 3, assignmentID, fh)
	require.NoError(t, err)
	require.Equal(t, 0, resp.Score)
	require.Equal(t, "AI unavailable", resp.Feedback["Error"])

	saved, err := stored.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Equal(t, 0, saved.Score)
}

func TestSubmitRemoteFailureStillPersists(t *testing.T) {
	chat := &stubChatClient{jsonErr: errStub}
	svc, _, assignments := newTestSubmissionService(chat)
	assignmentID := seedAssignment(t, assignments, "sin(30) = 0.5")

	fh := newTestFileHeader(t, "answers.txt", []byte("sin(30) = 0.5"))
	resp, err := svc.Submit(context.Background(), 3, assignmentID, fh)
	require.NoError(t, err)
	require.Equal(t, 0, resp.Score)
	require.Equal(t, "Grading failed", resp.Feedback["Error"])
}

func TestSubmitRequiresFile(t *testing.T) {
	svc, _, assignments := newTestSubmissionService(nil)
	assignmentID := seedAssignment(t, assignments, "key")

	_, err := svc.Submit(context.Background(), 3, assignmentID, nil)
	require.ErrorIs(t, err, ErrMissingUpload)
}

func TestSubmitUnknownAssignment(t *testing.T) {
	svc, _, _ := newTestSubmissionService(nil)

	fh := newTestFileHeader(t, "answers.txt", []byte("anything"))
	_, err := svc.Submit(context.Background(), 3, 42, fh)
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestListForStudentFiltersOthers(t *testing.T) {
	chat := &stubChatClient{jsonResponse: `{"score": 75, "feedback": {"Accuracy": "Fair"}}`}
	svc, _, assignments := newTestSubmissionService(chat)
	assignmentID := seedAssignment(t, assignments, "key")

	first := newTestFileHeader(t, "a.txt", []byte("answer one"))
	_, err := svc.Submit(context.Background(), 3, assignmentID, first)
	require.NoError(t, err)

	second := newTestFileHeader(t, "b.txt", []byte("answer two"))
	_, err = svc.Submit(context.Background(), 4, assignmentID, second)
	require.NoError(t, err)

	mine, err := svc.ListForStudent(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	all, err := svc.ListForAssignment(context.Background(), assignmentID)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
