package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"room_portal_backend/internal/rooms/repository"
	"room_portal_backend/internal/rooms/transport"
	"room_portal_backend/platform/apperr"
	"room_portal_backend/platform/sanitize"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, room *repository.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Room, error)
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	Update(ctx context.Context, room *repository.Room) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// Create validates the operating window and persists a new room.
func (s *Service) Create(ctx context.Context, req transport.CreateRoomRequest) (*repository.Room, error) {
	start, end, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	room := &repository.Room{
		Name:                sanitize.Text(req.Name),
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: req.SlotDurationMinutes,
	}
	if err := s.store.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// GetByID returns one live room.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*repository.Room, error) {
	return s.store.GetByID(ctx, id)
}

// List returns one page of live rooms.
func (s *Service) List(ctx context.Context, page, pageSize int) (*repository.ListResult, error) {
	return s.store.List(ctx, repository.ListParams{Page: page, PageSize: pageSize})
}

// Update replaces a room's name and operating window.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateRoomRequest) (*repository.Room, error) {
	start, end, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	room, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	room.Name = sanitize.Text(req.Name)
	room.StartTime = start
	room.EndTime = end
	room.SlotDurationMinutes = req.SlotDurationMinutes

	if err := s.store.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Delete soft-deletes a room.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.SoftDelete(ctx, id)
}

// parseWindow validates HH:MM or HH:MM:SS operating times and checks that
// the window is non-empty. Returns normalized HH:MM:SS strings.
func parseWindow(startTime, endTime string) (string, string, error) {
	start, err := parseClock(startTime)
	if err != nil {
		return "", "", apperr.Validation("invalid startTime: " + startTime)
	}
	end, err := parseClock(endTime)
	if err != nil {
		return "", "", apperr.Validation("invalid endTime: " + endTime)
	}
	if !start.Before(end) {
		return "", "", apperr.Validation("startTime must be before endTime")
	}
	return start.Format("15:04:05"), end.Format("15:04:05"), nil
}

func parseClock(value string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", value); err == nil {
		return t, nil
	}
	return time.Parse("15:04", value)
}
