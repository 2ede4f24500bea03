package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("user not found")
)

// User is immutable after signup: there are no update or delete paths.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Credentials is the signup/login request body.
type Credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type Repository interface {
	// Create persists a new user. Email uniqueness is case-insensitive and
	// enforced by the store; violations surface as ErrDuplicateEmail.
	Create(ctx context.Context, user User) (User, error)

	// GetByEmail looks a user up by email, compared case-insensitively.
	// Returns ErrNotFound when no such user exists.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
