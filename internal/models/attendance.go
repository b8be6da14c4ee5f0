package models

import "time"

// Attendance statuses.
const (
	AttendancePresent = "Present"
	AttendanceAbsent  = "Absent"
)

// Attendance records one student's presence in one lecture.
type Attendance struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Date           time.Time `gorm:"not null;index" json:"date"`
	LectureSubject string    `gorm:"size:100;not null;default:General" json:"lecture_subject"`
	Status         string    `gorm:"size:10;not null" json:"status"`
	StudentID      uint      `gorm:"not null;index" json:"student_id"`
	TeacherID      uint      `gorm:"not null" json:"teacher_id"`
	ClassName      string    `gorm:"size:50" json:"class_name"`
	Division       string    `gorm:"size:10" json:"division"`
	CreatedAt      time.Time `json:"created_at"`
}
