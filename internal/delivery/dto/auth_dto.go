package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type RegisterRequest struct {
	Name      string `json:"name" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// LogoutRequest optionally names the refresh token to revoke alongside the access token.
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// Response DTOs

type RegisterResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}
