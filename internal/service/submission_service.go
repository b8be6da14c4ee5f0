package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/classboard-dev/classboard-api/internal/dto"
	"github.com/classboard-dev/classboard-api/internal/grading"
	"github.com/classboard-dev/classboard-api/internal/models"
	"github.com/classboard-dev/classboard-api/internal/repository"
)

// Submission domain errors.
var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrMissingUpload      = errors.New("a submission file is required")
)

// SubmissionService exposes submission intake and review use cases.
type SubmissionService interface {
	Submit(ctx context.Context, studentID, assignmentID uint, file *multipart.FileHeader) (dto.SubmissionResponse, error)
	Get(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	ListForAssignment(ctx context.Context, assignmentID uint) ([]dto.SubmissionResponse, error)
	ListForStudent(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	grader      *grading.Grader
	logger      zerolog.Logger
	maxBytes    int64
}

// NewSubmissionService builds a new submission service.
func NewSubmissionService(
	submissions repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	grader *grading.Grader,
	logger zerolog.Logger,
	maxUploadMB int,
) SubmissionService {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		grader:      grader,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		maxBytes:    int64(maxUploadMB) << 20,
	}
}

// Submit stores a student's upload and grades it inline. Grading never
// fails the request: unreadable files and model outages surface as a
// zero score with an explanatory feedback entry.
func (s *submissionService) Submit(ctx context.Context, studentID, assignmentID uint, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	if file == nil {
		return dto.SubmissionResponse{}, ErrMissingUpload
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	data, err := readUpload(file, s.maxBytes)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	result := s.grader.Grade(ctx, data, file.Filename, assignment.AnswerKey)

	feedback := make(datatypes.JSONMap, len(result.Feedback))
	for key, value := range result.Feedback {
		feedback[key] = value
	}

	submission := models.Submission{
		AssignmentID:  assignmentID,
		StudentID:     studentID,
		SubmittedFile: data,
		Filename:      file.Filename,
		Score:         result.Score,
		Feedback:      feedback,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("assignment_id", assignmentID).
		Uint("student_id", studentID).
		Int("score", result.Score).
		Bool("degraded", result.Degraded()).
		Msg("submission graded")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Get(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) ListForAssignment(ctx context.Context, assignmentID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{AssignmentID: &assignmentID})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) ListForStudent(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}
