package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"room_portal_backend/platform/apperr"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so every method can run
// inside a caller-owned transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Permission is one customer/module view-permission row.
type Permission struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Module     string
	CanView    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InTx runs fn inside a single transaction, rolling back on error.
func (r *Repository) InTx(ctx context.Context, fn func(q DBTX) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const permissionColumns = `id, customer_id, module, can_view, created_at, updated_at`

// Find returns the permission row for one customer/module pair, or NotFound
// when no explicit row exists.
func (r *Repository) Find(ctx context.Context, q DBTX, customerID uuid.UUID, module string) (*Permission, error) {
	if q == nil {
		q = r.pool
	}
	query := `
		SELECT ` + permissionColumns + `
		FROM customer_module_permissions
		WHERE customer_id = $1 AND module = $2`

	var p Permission
	err := q.QueryRow(ctx, query, customerID, module).Scan(
		&p.ID, &p.CustomerID, &p.Module, &p.CanView, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("permission not found")
		}
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	return &p, nil
}

// FindAll returns every explicit permission row for a customer.
func (r *Repository) FindAll(ctx context.Context, q DBTX, customerID uuid.UUID) ([]Permission, error) {
	if q == nil {
		q = r.pool
	}
	query := `
		SELECT ` + permissionColumns + `
		FROM customer_module_permissions
		WHERE customer_id = $1
		ORDER BY module ASC`

	rows, err := q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()

	var out []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.Module, &p.CanView, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate permissions: %w", err)
	}
	return out, nil
}

// Upsert inserts or updates the row for one customer/module pair.
func (r *Repository) Upsert(ctx context.Context, q DBTX, customerID uuid.UUID, module string, canView bool) error {
	if q == nil {
		q = r.pool
	}
	query := `
		INSERT INTO customer_module_permissions (id, customer_id, module, can_view, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (customer_id, module)
		DO UPDATE SET can_view = EXCLUDED.can_view, updated_at = now()`

	if _, err := q.Exec(ctx, query, uuid.New(), customerID, module, canView); err != nil {
		return fmt.Errorf("failed to upsert permission: %w", err)
	}
	return nil
}

// CreateDefaults seeds an allow row for every known module. Used at customer
// registration inside the registration transaction.
func (r *Repository) CreateDefaults(ctx context.Context, q DBTX, customerID uuid.UUID, modules []string) error {
	for _, m := range modules {
		if err := r.Upsert(ctx, q, customerID, m, true); err != nil {
			return err
		}
	}
	return nil
}
