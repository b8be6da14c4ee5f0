package models

import (
	"time"

	"gorm.io/datatypes"
)

// Roles assignable to an account.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User represents an account in any of the three roles.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"size:256;not null" json:"-"`
	Role         string         `gorm:"size:10;not null" json:"role"`
	Verified     bool           `gorm:"default:false" json:"verified"`
	RollNo       string         `gorm:"size:20" json:"roll_no,omitempty"`
	ClassName    string         `gorm:"size:50" json:"class_name,omitempty"`
	Division     string         `gorm:"size:10" json:"division,omitempty"`
	Subject      string         `gorm:"size:100" json:"subject,omitempty"`
	Bio          string         `gorm:"type:text" json:"bio,omitempty"`
	AssignedClasses datatypes.JSON `json:"assigned_classes,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// IsTeacher reports whether the account can author assignments.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}
