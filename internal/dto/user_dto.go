package dto

import "github.com/noah-isme/teamboard-api/internal/models"

// UserResponse serializes a user account. The password hash never leaves the service.
type UserResponse struct {
	ID         uint        `json:"id"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	FullName   string      `json:"full_name"`
	Role       models.Role `json:"role"`
	IsActive   bool        `json:"is_active"`
	DateJoined DateTime    `json:"date_joined"`
}

// NewUserResponse converts a user model into a DTO.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Role:       user.Role,
		IsActive:   user.IsActive,
		DateJoined: NewDateTime(user.DateJoined),
	}
}

// NewUserResponses converts a slice of users.
func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return out
}

// UserCreateRequest is the payload for creating an account.
type UserCreateRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=150"`
	Email           string `json:"email" validate:"required,email,max=255"`
	FullName        string `json:"full_name" validate:"max=255"`
	Role            string `json:"role" validate:"required,oneof=supermanager manager employee"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	IsActive        *bool  `json:"is_active"`
}

// UserUpdateRequest captures partial updates. A password change needs the confirmation too.
type UserUpdateRequest struct {
	Email           *string `json:"email" validate:"omitempty,email,max=255"`
	FullName        *string `json:"full_name" validate:"omitempty,max=255"`
	Role            *string `json:"role" validate:"omitempty,oneof=supermanager manager employee"`
	IsActive        *bool   `json:"is_active"`
	Password        *string `json:"password" validate:"omitempty,min=8"`
	ConfirmPassword *string `json:"confirmPassword"`
}

// RegisterRequest is the self-registration payload. Registered accounts are employees.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=150"`
	Email           string `json:"email" validate:"required,email,max=255"`
	FullName        string `json:"full_name" validate:"max=255"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the account together with a bearer token.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Access    string       `json:"access"`
	ExpiresAt DateTime     `json:"expires_at"`
}
