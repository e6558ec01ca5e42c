package dto

import "github.com/billbook/billbook/internal/validator"

const (
	LoginSuccessMessage    = "Login successful"
	PasswordChangedMessage = "Password changed successfully"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

func (r *ChangePasswordRequest) Validate() error {
	return validator.ValidateRequest(r)
}
