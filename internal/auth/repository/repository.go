package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"room_portal_backend/platform/apperr"
)

// User is the subset of the users table the auth flow needs.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Status       string
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetUserByEmail retrieves a live user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, role, status
		FROM users
		WHERE email = $1 AND deleted_at IS NULL`

	var u User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// EmailExists reports whether a live user already uses the email.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND deleted_at IS NULL)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// InsertToken persists the hash of an issued access token.
func (r *Repository) InsertToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO auth_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, now())`

	if _, err := r.pool.Exec(ctx, query, uuid.New(), userID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}

// RevokeByHash marks a persisted token as revoked. Revoking an unknown or
// already revoked token is a no-op.
func (r *Repository) RevokeByHash(ctx context.Context, tokenHash string) error {
	query := `UPDATE auth_tokens SET revoked_at = now() WHERE token_hash = $1 AND revoked_at IS NULL`

	if _, err := r.pool.Exec(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsTokenLive reports whether a persisted token is known, unrevoked and
// unexpired.
func (r *Repository) IsTokenLive(ctx context.Context, tokenHash string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM auth_tokens
			WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > now()
		)`

	var live bool
	if err := r.pool.QueryRow(ctx, query, tokenHash).Scan(&live); err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return live, nil
}
