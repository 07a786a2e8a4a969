package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Login looks a user up by email. There is no password check.
	Login(ctx context.Context, req LoginRequest) (*Response, error)
	Authenticate(ctx context.Context, email string) (*User, error)
}

type LoginRequest struct {
	Email string `json:"email"`
}

type Response struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	StoreID string `json:"store_id,omitempty"`
}

var (
	ErrInvalidEmail = errors.New("invalid_email")
	ErrUserNotFound = errors.New("user_not_found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
