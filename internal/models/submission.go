package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission is a student's answer to an assignment, together with the
// score and feedback produced by the grading pipeline.
type Submission struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	AssignmentID  uint              `gorm:"not null;index" json:"assignment_id"`
	StudentID     uint              `gorm:"not null;index" json:"student_id"`
	SubmittedFile []byte            `gorm:"type:bytea" json:"-"`
	Filename      string            `gorm:"size:100" json:"filename"`
	Score         int               `gorm:"not null;default:0" json:"score"`
	Feedback      datatypes.JSONMap `json:"feedback"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Assignment    Assignment        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Student       User              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
