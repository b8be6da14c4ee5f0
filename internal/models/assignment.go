package models

import "time"

// Assignment is a piece of work a teacher publishes for a class.
// The questionnaire file is stored as raw bytes because the grading
// pipeline needs it server-side for text extraction and key generation.
type Assignment struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	Title                 string    `gorm:"size:150;not null" json:"title"`
	ClassName             string    `gorm:"size:50;not null" json:"class_name"`
	Division              string    `gorm:"size:10;not null" json:"division"`
	SubjectName           string    `gorm:"size:100;not null" json:"subject_name"`
	TeacherID             uint      `gorm:"not null" json:"teacher_id"`
	AnswerKey             string    `gorm:"type:text" json:"answer_key,omitempty"`
	QuestionnaireFile     []byte    `gorm:"type:bytea" json:"-"`
	QuestionnaireFilename string    `gorm:"size:100" json:"questionnaire_filename"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
	Teacher               User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Submissions           []Submission `json:"-"`
}

// HasAnswerKey reports whether submissions can be graded against a key.
func (a Assignment) HasAnswerKey() bool {
	return a.AnswerKey != ""
}
