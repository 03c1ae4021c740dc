package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Log is one persisted activity-log row.
type Log struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Module       string
	ActivityType string
	Description  string
	CreatedAt    time.Time
}

// ListParams filters and paginates activity-log queries.
type ListParams struct {
	UserID   *uuid.UUID
	Module   *string
	Page     int
	PageSize int
}

// ListResult contains one page of activity logs plus the total count.
type ListResult struct {
	Items    []Log
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

// Insert persists one activity-log row.
func (r *Repository) Insert(ctx context.Context, log *Log) error {
	query := `
		INSERT INTO activity_logs (id, user_id, module, activity_type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	_, err := r.pool.Exec(ctx, query,
		log.ID, log.UserID, log.Module, log.ActivityType, log.Description, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}
	return nil
}

// List retrieves activity logs newest-first with optional filtering.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	baseQuery := `FROM activity_logs WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	addFilter(&baseQuery, &args, &argIndex, params.UserID != nil, " AND user_id = $%d", derefUUID(params.UserID))
	addFilter(&baseQuery, &args, &argIndex, params.Module != nil, " AND module = $%d", derefString(params.Module))

	var total int
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count activity logs: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize

	selectQuery := fmt.Sprintf(`SELECT id, user_id, module, activity_type, description, created_at %s
		ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		baseQuery, argIndex, argIndex+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	var items []Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.UserID, &l.Module, &l.ActivityType, &l.Description, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity logs: %w", err)
	}

	return &ListResult{
		Items:    items,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
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

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
