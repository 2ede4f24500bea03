package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventbook/server/internal/domain/users"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ users.Repository = (*UserRepository)(nil)

type UserRepository struct {
	pool *pgxpool.Pool
}

// uniqueViolation is the Postgres error code raised by the unique index on
// lower(email); it is the single enforcement point for email uniqueness.
const uniqueViolation = "23505"

func (r *UserRepository) Create(ctx context.Context, user users.User) (users.User, error) {
	var createdAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (id, email, password_hash)
VALUES ($1, $2, $3)
RETURNING created_at
`, user.ID, user.Email, user.PasswordHash).Scan(&createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return users.User{}, users.ErrDuplicateEmail
		}
		return users.User{}, fmt.Errorf("create user: %w", err)
	}

	if createdAt.Valid {
		user.CreatedAt = createdAt.Time
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	var user users.User
	var createdAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, created_at
  FROM users
 WHERE lower(email) = lower($1)
`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if createdAt.Valid {
		user.CreatedAt = createdAt.Time
	}
	return &user, nil
}
