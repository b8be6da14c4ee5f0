package dto

import "github.com/classboard-dev/classboard-api/internal/models"

// RegisterRequest carries the signup payload for any role.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=80"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=student teacher"`
	RollNo    string `json:"roll_no" validate:"omitempty,max=20"`
	ClassName string `json:"class_name" validate:"omitempty,max=50"`
	Division  string `json:"division" validate:"omitempty,max=10"`
	Subject   string `json:"subject" validate:"omitempty,max=100"`
}

// LoginRequest carries credentials for token issuance.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// VerifyEmailRequest carries the one-time code sent by mail.
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// ResendOTPRequest asks for a fresh verification code.
type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordRequest starts the reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the reset flow with the mailed token.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Verified  bool   `json:"verified"`
	RollNo    string `json:"roll_no,omitempty"`
	ClassName string `json:"class_name,omitempty"`
	Division  string `json:"division,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// NewUserResponse converts a User model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:        model.ID,
		Username:  model.Username,
		Email:     model.Email,
		Role:      model.Role,
		Verified:  model.Verified,
		RollNo:    model.RollNo,
		ClassName: model.ClassName,
		Division:  model.Division,
		Subject:   model.Subject,
		Bio:       model.Bio,
	}
}

// NewUserResponseSlice converts user models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}
	return responses
}
