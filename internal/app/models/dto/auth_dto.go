package dto

import (
	"github.com/jinzhu/copier"
	"github.com/yigit/collegeportal/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
}

// SignupRequest represents a new account
type SignupRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Username  string `json:"username" binding:"required,min=3,max=30"`
	Email     string `json:"email" binding:"required,email"`
	Branch    string `json:"branch"`
	Year      int    `json:"year" binding:"required,min=1,max=6"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Password  string `json:"password" binding:"required,min=6"`
}

// ToSignupData converts the request into the service input
func (r SignupRequest) ToSignupData() models.SignupData {
	var data models.SignupData
	_ = copier.Copy(&data, &r)
	return data
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// AuthResponse represents a successful login or signup
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  models.User   `json:"user"`
}

// ForgotPasswordRequest asks for a reset link
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest sets a new password with a reset token
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// UpdateProfileRequest holds the editable profile fields; omitted fields are unchanged
type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Branch    *string `json:"branch,omitempty"`
	Year      *int    `json:"year,omitempty" binding:"omitempty,min=1,max=6"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// ToProfileUpdate converts the request into the service input
func (r UpdateProfileRequest) ToProfileUpdate() models.ProfileUpdate {
	return models.ProfileUpdate{
		Name:      r.Name,
		Branch:    r.Branch,
		Year:      r.Year,
		AvatarURL: r.AvatarURL,
	}
}

// ThemeRequest selects a colour theme
type ThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// ThemeResponse carries the stored theme
type ThemeResponse struct {
	Theme string `json:"theme"`
}
