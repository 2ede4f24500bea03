package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eventbook/server/internal/auth"
	"github.com/eventbook/server/internal/domain/ids"
	"github.com/eventbook/server/internal/validation"
)

type Service struct {
	repo   Repository
	hasher *auth.PasswordHasher
	tokens *auth.JWTManager
}

func NewService(repo Repository, hasher *auth.PasswordHasher, tokens *auth.JWTManager) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// Signup registers a new user and issues a session token. The plaintext
// password exists only for the duration of the hashing call.
func (s *Service) Signup(ctx context.Context, creds Credentials) (User, string, error) {
	if err := validation.Struct(creds); err != nil {
		return User{}, "", err
	}

	email := NormalizeEmail(creds.Email)

	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return User{}, "", fmt.Errorf("hash password: %w", err)
	}

	id, err := ids.NewULID()
	if err != nil {
		return User{}, "", fmt.Errorf("mint user id: %w", err)
	}

	user, err := s.repo.Create(ctx, User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return User{}, "", err
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, creds Credentials) (User, string, error) {
	if err := validation.Struct(creds); err != nil {
		return User{}, "", err
	}

	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(creds.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}

	if !s.hasher.Compare(user.PasswordHash, creds.Password) {
		return User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return *user, token, nil
}

// NormalizeEmail lowercases an email so uniqueness and lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
