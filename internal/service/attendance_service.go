package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/classboard-dev/classboard-api/internal/dto"
	"github.com/classboard-dev/classboard-api/internal/models"
	"github.com/classboard-dev/classboard-api/internal/repository"
)

// AttendanceService exposes attendance use cases.
type AttendanceService interface {
	Mark(ctx context.Context, teacherID uint, payload dto.MarkAttendanceRequest) ([]dto.AttendanceResponse, error)
	ListForStudent(ctx context.Context, studentID uint) ([]dto.AttendanceResponse, error)
	ListForClass(ctx context.Context, className, division, date string) ([]dto.AttendanceResponse, error)
	Summary(ctx context.Context, studentID uint) (dto.AttendanceSummaryResponse, error)
}

type attendanceService struct {
	repo      repository.AttendanceRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAttendanceService builds a new attendance service.
func NewAttendanceService(repo repository.AttendanceRepository, validate *validator.Validate, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "attendance_service").Logger(),
	}
}

func (s *attendanceService) Mark(ctx context.Context, teacherID uint, payload dto.MarkAttendanceRequest) ([]dto.AttendanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		return nil, err
	}

	records := make([]models.Attendance, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		records = append(records, models.Attendance{
			Date:           date,
			LectureSubject: payload.LectureSubject,
			Status:         entry.Status,
			StudentID:      entry.StudentID,
			TeacherID:      teacherID,
			ClassName:      payload.ClassName,
			Division:       payload.Division,
		})
	}

	if err := s.repo.CreateBatch(ctx, records); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("date", payload.Date).
		Str("class", payload.ClassName).
		Int("entries", len(records)).
		Msg("attendance marked")

	return dto.NewAttendanceResponseSlice(records), nil
}

func (s *attendanceService) ListForStudent(ctx context.Context, studentID uint) ([]dto.AttendanceResponse, error) {
	records, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewAttendanceResponseSlice(records), nil
}

func (s *attendanceService) ListForClass(ctx context.Context, className, division, date string) ([]dto.AttendanceResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ListByClassAndDate(ctx, className, division, day)
	if err != nil {
		return nil, err
	}

	return dto.NewAttendanceResponseSlice(records), nil
}

func (s *attendanceService) Summary(ctx context.Context, studentID uint) (dto.AttendanceSummaryResponse, error) {
	summary, err := s.repo.Summarize(ctx, studentID)
	if err != nil {
		return dto.AttendanceSummaryResponse{}, err
	}

	resp := dto.AttendanceSummaryResponse{
		StudentID: studentID,
		Total:     summary.Total,
		Present:   summary.Present,
	}
	if summary.Total > 0 {
		resp.Percentage = float64(summary.Present) / float64(summary.Total) * 100
	}

	return resp, nil
}
