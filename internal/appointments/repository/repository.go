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

// Appointment lifecycle states. CANCELED is terminal.
const (
	StatusPending   = "PENDING"
	StatusScheduled = "SCHEDULED"
	StatusCanceled  = "CANCELED"
)

const (
	appointmentNotFoundMsg = "appointment not found"
	conflictMsg            = "room already booked at this time"
	uniqueViolationCode    = "23505"
)

// Appointment is one booking row.
type Appointment struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	RoomID      uuid.UUID
	ScheduledAt time.Time
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AppointmentWithRelations joins the booking with room and customer display
// fields. The relation fields are nil when the related row was soft-deleted.
type AppointmentWithRelations struct {
	Appointment
	RoomName       *string
	LiveCustomerID *uuid.UUID
	CustomerName   *string
	CustomerEmail  *string
}

// ListParams filters and paginates appointment listings. From/To bound
// scheduled_at as a closed range.
type ListParams struct {
	CustomerID    *uuid.UUID
	From          *time.Time
	To            *time.Time
	Page          int
	PageSize      int
	SortDirection string // "asc" or "desc"
}

// ListResult contains one page of appointments plus the total count.
type ListResult struct {
	Items []AppointmentWithRelations
	Total int
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindConflict returns the non-canceled appointment occupying (room, instant),
// or nil when the slot is free. The comparison is an exact instant match.
func (r *Repository) FindConflict(ctx context.Context, roomID uuid.UUID, at time.Time) (*Appointment, error) {
	query := `
		SELECT id, customer_id, room_id, scheduled_at, status, created_at, updated_at
		FROM appointments
		WHERE room_id = $1 AND scheduled_at = $2 AND status <> $3 AND deleted_at IS NULL`

	var a Appointment
	err := r.pool.QueryRow(ctx, query, roomID, at, StatusCanceled).Scan(
		&a.ID, &a.CustomerID, &a.RoomID, &a.ScheduledAt, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check conflict: %w", err)
	}
	return &a, nil
}

// Create inserts a new PENDING appointment. The partial unique index on
// (room_id, scheduled_at) turns a concurrent double booking into Conflict.
func (r *Repository) Create(ctx context.Context, appt *Appointment) error {
	query := `
		INSERT INTO appointments (id, customer_id, room_id, scheduled_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING created_at, updated_at`

	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	appt.Status = StatusPending

	err := r.pool.QueryRow(ctx, query,
		appt.ID, appt.CustomerID, appt.RoomID, appt.ScheduledAt, appt.Status,
	).Scan(&appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperr.Conflict(conflictMsg)
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

const relationQuery = `
	SELECT a.id, a.customer_id, a.room_id, a.scheduled_at, a.status, a.created_at, a.updated_at,
		r.name, c.id, u.name, u.email
	FROM appointments a
	LEFT JOIN rooms r ON r.id = a.room_id AND r.deleted_at IS NULL
	LEFT JOIN customers c ON c.id = a.customer_id AND c.deleted_at IS NULL
	LEFT JOIN users u ON u.id = c.user_id AND u.deleted_at IS NULL`

func scanWithRelations(row pgx.Row) (*AppointmentWithRelations, error) {
	var a AppointmentWithRelations
	err := row.Scan(
		&a.ID, &a.CustomerID, &a.RoomID, &a.ScheduledAt, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		&a.RoomName, &a.LiveCustomerID, &a.CustomerName, &a.CustomerEmail,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetWithRelations retrieves a live appointment with its room and customer
// display fields.
func (r *Repository) GetWithRelations(ctx context.Context, id uuid.UUID) (*AppointmentWithRelations, error) {
	query := relationQuery + ` WHERE a.id = $1 AND a.deleted_at IS NULL`

	a, err := scanWithRelations(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(appointmentNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return a, nil
}

// List retrieves appointments sorted by scheduled_at with offset pagination.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	where := `WHERE a.deleted_at IS NULL`
	args := []interface{}{}
	argIndex := 1

	addFilter(&where, &args, &argIndex, params.CustomerID != nil, " AND a.customer_id = $%d", derefUUID(params.CustomerID))
	addFilter(&where, &args, &argIndex, params.From != nil, " AND a.scheduled_at >= $%d", derefTime(params.From))
	addFilter(&where, &args, &argIndex, params.To != nil, " AND a.scheduled_at <= $%d", derefTime(params.To))

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM appointments a "+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}

	dir, err := sortDir(params.SortDirection)
	if err != nil {
		return nil, err
	}

	offset := (params.Page - 1) * params.PageSize
	selectQuery := fmt.Sprintf(`%s
		%s
		ORDER BY a.scheduled_at %s, a.id %s
		LIMIT $%d OFFSET $%d`,
		relationQuery, where, dir, dir, argIndex, argIndex+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var items []AppointmentWithRelations
	for rows.Next() {
		a, err := scanWithRelations(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointments: %w", err)
	}

	return &ListResult{Items: items, Total: total}, nil
}

// sortDir maps the wire sort value to a SQL direction keyword. The keyword is
// interpolated into the query, so only the two known values pass.
func sortDir(direction string) (string, error) {
	switch direction {
	case "", "asc":
		return "ASC", nil
	case "desc":
		return "DESC", nil
	default:
		return "", apperr.BadRequest("invalid sort direction")
	}
}

// UpdateStatus sets a new lifecycle status and returns the refreshed record
// with relations. NotFound when the row is missing or soft-deleted.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (*AppointmentWithRelations, error) {
	query := `
		UPDATE appointments SET status = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id`

	var updatedID uuid.UUID
	if err := r.pool.QueryRow(ctx, query, id, newStatus).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(appointmentNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	return r.GetWithRelations(ctx, updatedID)
}

func addFilter(baseQuery *string, args *[]interface{}, argIndex *int, apply bool, clause string, value interface{}) {
	if !apply {
		return
	}
	*baseQuery += fmt.Sprintf(clause, *argIndex)
	*args = append(*args, value)
	*argIndex++
}

func derefUUID(value *uuid.UUID) uuid.UUID {
	if value == nil {
		return uuid.UUID{}
	}
	return *value
}

func derefTime(value *time.Time) time.Time {
	if value == nil {
		return time.Time{}
	}
	return *value
}
