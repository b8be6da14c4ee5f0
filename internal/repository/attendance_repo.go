package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/classboard-dev/classboard-api/internal/models"
)

// AttendanceSummary aggregates one student's attendance counters.
type AttendanceSummary struct {
	Total   int64
	Present int64
}

// AttendanceRepository defines data operations for attendance records.
type AttendanceRepository interface {
	CreateBatch(ctx context.Context, records []models.Attendance) error
	ListByStudent(ctx context.Context, studentID uint) ([]models.Attendance, error)
	ListByClassAndDate(ctx context.Context, className, division string, date time.Time) ([]models.Attendance, error)
	Summarize(ctx context.Context, studentID uint) (AttendanceSummary, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates the repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) CreateBatch(ctx context.Context, records []models.Attendance) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *attendanceRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Attendance, error) {
	var records []models.Attendance
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("date DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *attendanceRepository) ListByClassAndDate(ctx context.Context, className, division string, date time.Time) ([]models.Attendance, error) {
	var records []models.Attendance
	if err := r.db.WithContext(ctx).
		Where("class_name = ?", className).
		Where("division = ?", division).
		Where("date = ?", date).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *attendanceRepository) Summarize(ctx context.Context, studentID uint) (AttendanceSummary, error) {
	var summary AttendanceSummary

	if err := r.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("student_id = ?", studentID).
		Count(&summary.Total).Error; err != nil {
		return AttendanceSummary{}, err
	}

	if err := r.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("student_id = ?", studentID).
		Where("status = ?", models.AttendancePresent).
		Count(&summary.Present).Error; err != nil {
		return AttendanceSummary{}, err
	}

	return summary, nil
}
