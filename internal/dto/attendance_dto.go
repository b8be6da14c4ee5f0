package dto

import (
	"github.com/classboard-dev/classboard-api/internal/models"
)

// MarkAttendanceRequest records one lecture for a whole class in a
// single call.
type MarkAttendanceRequest struct {
	Date           string                 `json:"date" validate:"required,datetime=2006-01-02"`
	LectureSubject string                 `json:"lecture_subject" validate:"required,max=100"`
	ClassName      string                 `json:"class_name" validate:"required,max=50"`
	Division       string                 `json:"division" validate:"required,max=10"`
	Entries        []AttendanceEntryInput `json:"entries" validate:"required,min=1,dive"`
}

// AttendanceEntryInput is one student's status within a lecture.
type AttendanceEntryInput struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=Present Absent"`
}

// AttendanceResponse is the stored view of one attendance record.
type AttendanceResponse struct {
	ID             uint   `json:"id"`
	Date           string `json:"date"`
	LectureSubject string `json:"lecture_subject"`
	Status         string `json:"status"`
	StudentID      uint   `json:"student_id"`
	ClassName      string `json:"class_name"`
	Division       string `json:"division"`
}

// NewAttendanceResponse converts an Attendance model into a DTO.
func NewAttendanceResponse(model models.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:             model.ID,
		Date:           model.Date.Format("2006-01-02"),
		LectureSubject: model.LectureSubject,
		Status:         model.Status,
		StudentID:      model.StudentID,
		ClassName:      model.ClassName,
		Division:       model.Division,
	}
}

// NewAttendanceResponseSlice converts attendance models into DTOs.
func NewAttendanceResponseSlice(records []models.Attendance) []AttendanceResponse {
	responses := make([]AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewAttendanceResponse(record))
	}
	return responses
}

// AttendanceSummaryResponse reports a student's presence ratio.
type AttendanceSummaryResponse struct {
	StudentID  uint    `json:"student_id"`
	Total      int64   `json:"total_lectures"`
	Present    int64   `json:"present"`
	Percentage float64 `json:"percentage"`
}
