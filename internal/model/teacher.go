package model

import (
	"time"

	"github.com/google/uuid"
)

// Teacher is an account that can create tests and review submissions.
type Teacher struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Institution  *string   `json:"institution,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest is the payload for creating a teacher account.
type RegisterRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8,max=72"`
	FullName    string  `json:"full_name" binding:"required,min=2,max=120"`
	Institution *string `json:"institution" binding:"omitempty,max=200"`
}

// LoginRequest is the payload for a teacher login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
