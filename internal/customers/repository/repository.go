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

const (
	customerNotFoundMsg = "customer not found"
	uniqueViolationCode = "23505"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so multi-step writes
// (registration, profile updates) can run inside one transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// User is the identity row behind a customer or admin account.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Customer is the portal profile attached to a user.
type Customer struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	ZipCode      string
	Street       string
	Number       string
	Complement   *string
	Neighborhood string
	City         string
	State        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile joins a customer with its user row.
type Profile struct {
	User     User
	Customer Customer
}

// ListParams filters and paginates customer listings.
type ListParams struct {
	Search   string
	Page     int
	PageSize int
}

// ListResult contains one page of profiles plus the total count.
type ListResult struct {
	Items    []Profile
	Total    int
	Page     int
	PageSize int
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

// CreateUser inserts a new user row. A live-email collision surfaces as
// AlreadyExists.
func (r *Repository) CreateUser(ctx context.Context, q DBTX, user *User) error {
	if q == nil {
		q = r.pool
	}
	query := `
		INSERT INTO users (id, name, email, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING created_at, updated_at`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	err := q.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.Status,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.AlreadyExists("email already registered")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// CreateCustomer inserts the customer profile for a user.
func (r *Repository) CreateCustomer(ctx context.Context, q DBTX, customer *Customer) error {
	if q == nil {
		q = r.pool
	}
	query := `
		INSERT INTO customers (id, user_id, zip_code, street, number, complement, neighborhood, city, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING created_at, updated_at`

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}

	err := q.QueryRow(ctx, query,
		customer.ID, customer.UserID, customer.ZipCode, customer.Street, customer.Number,
		customer.Complement, customer.Neighborhood, customer.City, customer.State,
	).Scan(&customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.AlreadyExists("customer already registered for user")
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

const profileColumns = `
	u.id, u.name, u.email, u.password_hash, u.role, u.status, u.created_at, u.updated_at,
	c.id, c.user_id, c.zip_code, c.street, c.number, c.complement, c.neighborhood, c.city, c.state, c.created_at, c.updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(
		&p.User.ID, &p.User.Name, &p.User.Email, &p.User.PasswordHash, &p.User.Role,
		&p.User.Status, &p.User.CreatedAt, &p.User.UpdatedAt,
		&p.Customer.ID, &p.Customer.UserID, &p.Customer.ZipCode, &p.Customer.Street,
		&p.Customer.Number, &p.Customer.Complement, &p.Customer.Neighborhood,
		&p.Customer.City, &p.Customer.State, &p.Customer.CreatedAt, &p.Customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfileByUserID retrieves the live profile for a user.
func (r *Repository) GetProfileByUserID(ctx context.Context, q DBTX, userID uuid.UUID) (*Profile, error) {
	if q == nil {
		q = r.pool
	}
	query := `
		SELECT ` + profileColumns + `
		FROM customers c
		JOIN users u ON u.id = c.user_id
		WHERE c.user_id = $1 AND c.deleted_at IS NULL AND u.deleted_at IS NULL`

	p, err := scanProfile(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(customerNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// GetProfileByCustomerID retrieves the live profile for a customer.
func (r *Repository) GetProfileByCustomerID(ctx context.Context, customerID uuid.UUID) (*Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM customers c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1 AND c.deleted_at IS NULL AND u.deleted_at IS NULL`

	p, err := scanProfile(r.pool.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(customerNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// CustomerIDByUserID resolves the live customer id behind a user.
func (r *Repository) CustomerIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	query := `SELECT id FROM customers WHERE user_id = $1 AND deleted_at IS NULL`

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperr.NotFound(customerNotFoundMsg)
		}
		return uuid.Nil, fmt.Errorf("failed to resolve customer: %w", err)
	}
	return id, nil
}

// UpdateUser rewrites the identity fields of a user.
func (r *Repository) UpdateUser(ctx context.Context, q DBTX, user *User) error {
	if q == nil {
		q = r.pool
	}
	query := `
		UPDATE users SET name = $2, email = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := q.QueryRow(ctx, query, user.ID, user.Name, user.Email).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("user not found")
		}
		if isUniqueViolation(err) {
			return apperr.AlreadyExists("email already registered")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdateCustomerAddress rewrites the address fields of a customer.
func (r *Repository) UpdateCustomerAddress(ctx context.Context, q DBTX, customer *Customer) error {
	if q == nil {
		q = r.pool
	}
	query := `
		UPDATE customers
		SET zip_code = $2, street = $3, number = $4, complement = $5, neighborhood = $6, city = $7, state = $8, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := q.QueryRow(ctx, query,
		customer.ID, customer.ZipCode, customer.Street, customer.Number,
		customer.Complement, customer.Neighborhood, customer.City, customer.State,
	).Scan(&customer.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound(customerNotFoundMsg)
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

// List retrieves live customer profiles ordered by user name, with an
// optional name/email search.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	baseQuery := `
		FROM customers c
		JOIN users u ON u.id = c.user_id
		WHERE c.deleted_at IS NULL AND u.deleted_at IS NULL`
	args := []interface{}{}
	argIndex := 1

	if params.Search != "" {
		baseQuery += fmt.Sprintf(" AND (u.name ILIKE $%d OR u.email ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+params.Search+"%")
		argIndex++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	query := fmt.Sprintf("SELECT %s %s ORDER BY u.name ASC LIMIT $%d OFFSET $%d",
		profileColumns, baseQuery, argIndex, argIndex+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var items []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}

	return &ListResult{Items: items, Total: total, Page: params.Page, PageSize: params.PageSize}, nil
}

// SoftDelete marks both the customer and its user as deleted, in one
// transaction.
func (r *Repository) SoftDelete(ctx context.Context, customerID uuid.UUID) error {
	return r.InTx(ctx, func(q DBTX) error {
		var userID uuid.UUID
		err := q.QueryRow(ctx, `
			UPDATE customers SET deleted_at = now(), updated_at = now()
			WHERE id = $1 AND deleted_at IS NULL
			RETURNING user_id`, customerID).Scan(&userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound(customerNotFoundMsg)
			}
			return fmt.Errorf("failed to delete customer: %w", err)
		}

		if _, err := q.Exec(ctx, `
			UPDATE users SET deleted_at = now(), updated_at = now()
			WHERE id = $1 AND deleted_at IS NULL`, userID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
