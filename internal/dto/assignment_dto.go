package dto

import (
	"time"

	"github.com/classboard-dev/classboard-api/internal/models"
)

// CreateAssignmentRequest carries the multipart fields that accompany an
// optional questionnaire upload.
type CreateAssignmentRequest struct {
	Title       string `json:"title" form:"title" validate:"required,min=3,max=200"`
	ClassName   string `json:"class_name" form:"class_name" validate:"required,max=50"`
	Division    string `json:"division" form:"division" validate:"required,max=10"`
	SubjectName string `json:"subject_name" form:"subject_name" validate:"required,max=100"`
	AnswerKey   string `json:"answer_key" form:"answer_key" validate:"omitempty"`
}

// UpdateAssignmentRequest carries mutable assignment fields.
type UpdateAssignmentRequest struct {
	Title       string `json:"title" validate:"omitempty,min=3,max=200"`
	SubjectName string `json:"subject_name" validate:"omitempty,max=100"`
	AnswerKey   string `json:"answer_key" validate:"omitempty"`
}

// AssignmentResponse is the public view of an assignment. The raw
// questionnaire bytes are never serialized.
type AssignmentResponse struct {
	ID                    uint      `json:"id"`
	Title                 string    `json:"title"`
	ClassName             string    `json:"class_name"`
	Division              string    `json:"division"`
	SubjectName           string    `json:"subject_name"`
	TeacherID             uint      `json:"teacher_id"`
	TeacherName           string    `json:"teacher_name,omitempty"`
	HasAnswerKey          bool      `json:"has_answer_key"`
	QuestionnaireFilename string    `json:"questionnaire_filename,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

// NewAssignmentResponse converts an Assignment model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:                    model.ID,
		Title:                 model.Title,
		ClassName:             model.ClassName,
		Division:              model.Division,
		SubjectName:           model.SubjectName,
		TeacherID:             model.TeacherID,
		HasAnswerKey:          model.HasAnswerKey(),
		QuestionnaireFilename: model.QuestionnaireFilename,
		CreatedAt:             model.CreatedAt,
	}
	if model.Teacher.ID != 0 {
		resp.TeacherName = model.Teacher.Username
	}
	return resp
}

// NewAssignmentResponseSlice converts assignment models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}
	return responses
}

// AnswerKeyResponse is returned by the answer-key generation endpoint.
type AnswerKeyResponse struct {
	AssignmentID uint   `json:"assignment_id"`
	AnswerKey    string `json:"answer_key"`
}
