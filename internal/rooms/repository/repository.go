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

const roomNotFoundMsg = "room not found"

// Room is a bookable shared room with an operating window and slot size.
type Room struct {
	ID                  uuid.UUID
	Name                string
	StartTime           string // HH:MM:SS
	EndTime             string // HH:MM:SS
	SlotDurationMinutes int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ListParams paginates room listings.
type ListParams struct {
	Page     int
	PageSize int
}

// ListResult contains one page of rooms plus the total count.
type ListResult struct {
	Items    []Room
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

const roomColumns = `id, name, start_time::text, end_time::text, slot_duration_minutes, created_at, updated_at`

// Create persists a new room.
func (r *Repository) Create(ctx context.Context, room *Room) error {
	query := `
		INSERT INTO rooms (id, name, start_time, end_time, slot_duration_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING created_at, updated_at`

	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		room.ID, room.Name, room.StartTime, room.EndTime, room.SlotDurationMinutes,
	).Scan(&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// GetByID retrieves a live room by its ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 AND deleted_at IS NULL`

	var room Room
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&room.ID, &room.Name, &room.StartTime, &room.EndTime,
		&room.SlotDurationMinutes, &room.CreatedAt, &room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(roomNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

// List retrieves live rooms ordered by name.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rooms WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE deleted_at IS NULL ORDER BY name ASC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, params.PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var items []Room
	for rows.Next() {
		var room Room
		if err := rows.Scan(
			&room.ID, &room.Name, &room.StartTime, &room.EndTime,
			&room.SlotDurationMinutes, &room.CreatedAt, &room.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		items = append(items, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}

	return &ListResult{Items: items, Total: total, Page: params.Page, PageSize: params.PageSize}, nil
}

// Update rewrites a room's mutable fields.
func (r *Repository) Update(ctx context.Context, room *Room) error {
	query := `
		UPDATE rooms
		SET name = $2, start_time = $3, end_time = $4, slot_duration_minutes = $5, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		room.ID, room.Name, room.StartTime, room.EndTime, room.SlotDurationMinutes,
	).Scan(&room.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound(roomNotFoundMsg)
		}
		return fmt.Errorf("failed to update room: %w", err)
	}
	return nil
}

// SoftDelete marks a room as deleted without removing the row.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE rooms SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(roomNotFoundMsg)
	}
	return nil
}
