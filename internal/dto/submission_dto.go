package dto

import (
	"time"

	"github.com/classboard-dev/classboard-api/internal/models"
)

// SubmissionResponse is the graded view of a submission.
type SubmissionResponse struct {
	ID           uint              `json:"id"`
	AssignmentID uint              `json:"assignment_id"`
	StudentID    uint              `json:"student_id"`
	StudentName  string            `json:"student_name,omitempty"`
	Assignment   string            `json:"assignment_title,omitempty"`
	Filename     string            `json:"filename"`
	Score        int               `json:"score"`
	Feedback     map[string]string `json:"feedback"`
	SubmittedAt  time.Time         `json:"submitted_at"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	feedback := make(map[string]string, len(model.Feedback))
	for key, value := range model.Feedback {
		if text, ok := value.(string); ok {
			feedback[key] = text
		}
	}
	resp := SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		Filename:     model.Filename,
		Score:        model.Score,
		Feedback:     feedback,
		SubmittedAt:  model.CreatedAt,
	}
	if model.Student.ID != 0 {
		resp.StudentName = model.Student.Username
	}
	if model.Assignment.ID != 0 {
		resp.Assignment = model.Assignment.Title
	}
	return resp
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}
