package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/classboard-dev/classboard-api/internal/dto"
	"github.com/classboard-dev/classboard-api/internal/models"
	"github.com/classboard-dev/classboard-api/internal/repository"
)

// DashboardService produces aggregated home-screen views.
type DashboardService interface {
	StudentDashboard(ctx context.Context, student models.User) (dto.StudentDashboardResponse, error)
	TeacherDashboard(ctx context.Context, teacher models.User) (dto.TeacherDashboardResponse, error)
}

type dashboardService struct {
	users       repository.UserRepository
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	attendance  repository.AttendanceRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(
	users repository.UserRepository,
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	attendance repository.AttendanceRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		users:       users,
		assignments: assignments,
		submissions: submissions,
		attendance:  attendance,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) StudentDashboard(ctx context.Context, student models.User) (dto.StudentDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:student:%d", student.ID)

	var cached dto.StudentDashboardResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	assignments, err := s.assignments.ListByClass(ctx, student.ClassName, student.Division)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &student.ID})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	summary, err := s.attendance.Summarize(ctx, student.ID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	response := buildStudentDashboard(student.ID, assignments, submissions, summary)
	s.writeCache(ctx, cacheKey, response)

	return response, nil
}

func (s *dashboardService) TeacherDashboard(ctx context.Context, teacher models.User) (dto.TeacherDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:teacher:%d", teacher.ID)

	var cached dto.TeacherDashboardResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	assignments, err := s.assignments.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	var submissionCount int64
	for _, assignment := range assignments {
		id := assignment.ID
		submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{AssignmentID: &id})
		if err != nil {
			return dto.TeacherDashboardResponse{}, err
		}
		submissionCount += int64(len(submissions))
	}

	var studentCount int64
	for _, class := range teacherClasses(assignments) {
		students, err := s.users.ListStudentsByClass(ctx, class.name, class.division)
		if err != nil {
			return dto.TeacherDashboardResponse{}, err
		}
		studentCount += int64(len(students))
	}

	response := dto.TeacherDashboardResponse{
		Assignments:     dto.NewAssignmentResponseSlice(assignments),
		SubmissionCount: submissionCount,
		StudentCount:    studentCount,
	}
	s.writeCache(ctx, cacheKey, response)

	return response, nil
}

func (s *dashboardService) readCache(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}

	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
		return false
	}

	if err := json.Unmarshal([]byte(cached), out); err != nil {
		return false
	}

	s.logger.Debug().Str("key", key).Msg("dashboard cache hit")
	return true
}

func (s *dashboardService) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
	}
}

func buildStudentDashboard(studentID uint, assignments []models.Assignment, submissions []models.Submission, summary repository.AttendanceSummary) dto.StudentDashboardResponse {
	submittedFor := make(map[uint]bool, len(submissions))
	var scoreTotal int
	for _, submission := range submissions {
		submittedFor[submission.AssignmentID] = true
		scoreTotal += submission.Score
	}

	pending := 0
	for _, assignment := range assignments {
		if !submittedFor[assignment.ID] {
			pending++
		}
	}

	attendance := dto.AttendanceSummaryResponse{
		StudentID: studentID,
		Total:     summary.Total,
		Present:   summary.Present,
	}
	if summary.Total > 0 {
		attendance.Percentage = float64(summary.Present) / float64(summary.Total) * 100
	}

	response := dto.StudentDashboardResponse{
		Assignments:  dto.NewAssignmentResponseSlice(assignments),
		Submissions:  dto.NewSubmissionResponseSlice(submissions),
		Attendance:   attendance,
		PendingCount: pending,
	}
	if len(submissions) > 0 {
		response.AverageScore = float64(scoreTotal) / float64(len(submissions))
	}

	return response
}

type classKey struct {
	name     string
	division string
}

func teacherClasses(assignments []models.Assignment) []classKey {
	seen := make(map[classKey]bool)
	classes := make([]classKey, 0)
	for _, assignment := range assignments {
		key := classKey{name: assignment.ClassName, division: assignment.Division}
		if !seen[key] {
			seen[key] = true
			classes = append(classes, key)
		}
	}
	return classes
}
