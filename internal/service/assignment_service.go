package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/classboard-dev/classboard-api/internal/dto"
	"github.com/classboard-dev/classboard-api/internal/grading"
	"github.com/classboard-dev/classboard-api/internal/models"
	"github.com/classboard-dev/classboard-api/internal/repository"
)

// Assignment domain errors.
var (
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrNotAssignmentOwner  = errors.New("assignment belongs to another teacher")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds the upload limit")
	ErrNoQuestionnaire     = errors.New("assignment has no questionnaire to solve")
)

// questionnaire and submission uploads share the same allowlist.
var allowedUploadTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"text/plain":      true,
}

// AssignmentService exposes assignment domain use cases.
type AssignmentService interface {
	Create(ctx context.Context, teacherID uint, payload dto.CreateAssignmentRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error)
	Update(ctx context.Context, teacherID, id uint, payload dto.UpdateAssignmentRequest) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, teacherID, id uint) error
	Get(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	ListForTeacher(ctx context.Context, teacherID uint) ([]dto.AssignmentResponse, error)
	ListForClass(ctx context.Context, className, division string) ([]dto.AssignmentResponse, error)
	ListForStudent(ctx context.Context, studentID uint) ([]dto.AssignmentResponse, error)
	Questionnaire(ctx context.Context, id uint) (string, []byte, error)
	GenerateAnswerKey(ctx context.Context, teacherID, id uint) (dto.AnswerKeyResponse, error)
}

type assignmentService struct {
	repo      repository.AssignmentRepository
	users     repository.UserRepository
	extractor *grading.Extractor
	keygen    *grading.KeyGenerator
	validator *validator.Validate
	logger    zerolog.Logger
	maxBytes  int64
}

// NewAssignmentService builds a new assignment service.
func NewAssignmentService(
	repo repository.AssignmentRepository,
	users repository.UserRepository,
	extractor *grading.Extractor,
	keygen *grading.KeyGenerator,
	validate *validator.Validate,
	logger zerolog.Logger,
	maxUploadMB int,
) AssignmentService {
	return &assignmentService{
		repo:      repo,
		users:     users,
		extractor: extractor,
		keygen:    keygen,
		validator: validate,
		logger:    logger.With().Str("component", "assignment_service").Logger(),
		maxBytes:  int64(maxUploadMB) << 20,
	}
}

func (s *assignmentService) Create(ctx context.Context, teacherID uint, payload dto.CreateAssignmentRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		Title:       payload.Title,
		ClassName:   payload.ClassName,
		Division:    payload.Division,
		SubjectName: payload.SubjectName,
		TeacherID:   teacherID,
		AnswerKey:   payload.AnswerKey,
	}

	if file != nil {
		data, err := readUpload(file, s.maxBytes)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.QuestionnaireFile = data
		assignment.QuestionnaireFilename = file.Filename
	}

	if err := s.repo.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Uint("teacher_id", teacherID).
		Bool("has_questionnaire", len(assignment.QuestionnaireFile) > 0).
		Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Update(ctx context.Context, teacherID, id uint, payload dto.UpdateAssignmentRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.ownedAssignment(ctx, teacherID, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if payload.Title != "" {
		assignment.Title = payload.Title
	}
	if payload.SubjectName != "" {
		assignment.SubjectName = payload.SubjectName
	}
	if payload.AnswerKey != "" {
		assignment.AnswerKey = payload.AnswerKey
	}

	if err := s.repo.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Delete(ctx context.Context, teacherID, id uint) error {
	if _, err := s.ownedAssignment(ctx, teacherID, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func (s *assignmentService) Get(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) ListForTeacher(ctx context.Context, teacherID uint) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) ListForClass(ctx context.Context, className, division string) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.ListByClass(ctx, className, division)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

// ListForStudent resolves the student's class and lists its assignments.
func (s *assignmentService) ListForStudent(ctx context.Context, studentID uint) ([]dto.AssignmentResponse, error) {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.ListForClass(ctx, student.ClassName, student.Division)
}

// Questionnaire returns the stored upload for download.
func (s *assignmentService) Questionnaire(ctx context.Context, id uint) (string, []byte, error) {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrAssignmentNotFound
		}
		return "", nil, err
	}

	if len(assignment.QuestionnaireFile) == 0 {
		return "", nil, ErrNoQuestionnaire
	}

	return assignment.QuestionnaireFilename, assignment.QuestionnaireFile, nil
}

// GenerateAnswerKey extracts the questionnaire text and asks the
// reasoning model to solve it. The generated key is persisted so
// later submissions grade against it.
func (s *assignmentService) GenerateAnswerKey(ctx context.Context, teacherID, id uint) (dto.AnswerKeyResponse, error) {
	assignment, err := s.ownedAssignment(ctx, teacherID, id)
	if err != nil {
		return dto.AnswerKeyResponse{}, err
	}

	if len(assignment.QuestionnaireFile) == 0 {
		return dto.AnswerKeyResponse{}, ErrNoQuestionnaire
	}

	questionText := s.extractor.Extract(ctx, assignment.QuestionnaireFile, assignment.QuestionnaireFilename)
	key := s.keygen.Generate(ctx, questionText)

	assignment.AnswerKey = key
	if err := s.repo.Update(ctx, &assignment); err != nil {
		return dto.AnswerKeyResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("answer key generated")

	return dto.AnswerKeyResponse{AssignmentID: assignment.ID, AnswerKey: key}, nil
}

func (s *assignmentService) ownedAssignment(ctx context.Context, teacherID, id uint) (models.Assignment, error) {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}

	if assignment.TeacherID != teacherID {
		return models.Assignment{}, ErrNotAssignmentOwner
	}

	return assignment, nil
}

// readUpload loads a multipart file into memory, enforcing the size
// limit and the content-type allowlist by sniffing the bytes.
func readUpload(file *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if file.Size > maxBytes {
		return nil, ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrFileTooLarge
	}

	detected := mimetype.Detect(data)
	if !uploadTypeAllowed(detected.String()) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, detected.String())
	}

	return data, nil
}

func uploadTypeAllowed(mime string) bool {
	base := mime
	if idx := strings.IndexByte(base, ';'); idx >= 0 {
		base = strings.TrimSpace(base[:idx])
	}
	// Plain-text answers often sniff as generic utf-8 text.
	if strings.HasPrefix(base, "text/") {
		return true
	}
	return allowedUploadTypes[base]
}
