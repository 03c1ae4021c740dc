// Package transport defines request and response DTOs for the auth module.
package transport

import (
	"github.com/google/uuid"

	"room_portal_backend/internal/auth/repository"
)

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the authenticated user summary returned with a token.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

// CheckEmailRequest carries the email availability probe.
type CheckEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CheckEmailResponse reports email availability.
type CheckEmailResponse struct {
	Available bool `json:"available"`
}

// FromUser maps an auth user to the wire format.
func FromUser(u *repository.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
