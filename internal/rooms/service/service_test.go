package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"room_portal_backend/internal/rooms/repository"
	"room_portal_backend/internal/rooms/transport"
	"room_portal_backend/platform/apperr"
)

type fakeStore struct {
	rooms map[uuid.UUID]repository.Room
}

func newFakeStore() *fakeStore {
	return &fakeStore{rooms: make(map[uuid.UUID]repository.Room)}
}

func (f *fakeStore) Create(ctx context.Context, room *repository.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	f.rooms[room.ID] = *room
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*repository.Room, error) {
	room, ok := f.rooms[id]
	if !ok {
		return nil, apperr.NotFound("room not found")
	}
	return &room, nil
}

func (f *fakeStore) List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error) {
	var items []repository.Room
	for _, r := range f.rooms {
		items = append(items, r)
	}
	return &repository.ListResult{Items: items, Total: len(items), Page: params.Page, PageSize: params.PageSize}, nil
}

func (f *fakeStore) Update(ctx context.Context, room *repository.Room) error {
	if _, ok := f.rooms[room.ID]; !ok {
		return apperr.NotFound("room not found")
	}
	f.rooms[room.ID] = *room
	return nil
}

func (f *fakeStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.rooms[id]; !ok {
		return apperr.NotFound("room not found")
	}
	delete(f.rooms, id)
	return nil
}

func TestCreateNormalizesClockTimes(t *testing.T) {
	svc := New(newFakeStore())

	room, err := svc.Create(context.Background(), transport.CreateRoomRequest{
		Name:                "Sala A",
		StartTime:           "08:00",
		EndTime:             "18:30",
		SlotDurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if room.StartTime != "08:00:00" || room.EndTime != "18:30:00" {
		t.Fatalf("expected normalized times, got %s / %s", room.StartTime, room.EndTime)
	}
}

func TestCreateRejectsInvertedWindow(t *testing.T) {
	svc := New(newFakeStore())

	_, err := svc.Create(context.Background(), transport.CreateRoomRequest{
		Name:                "Sala A",
		StartTime:           "18:00",
		EndTime:             "08:00",
		SlotDurationMinutes: 30,
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsEqualWindow(t *testing.T) {
	svc := New(newFakeStore())

	_, err := svc.Create(context.Background(), transport.CreateRoomRequest{
		Name:                "Sala A",
		StartTime:           "08:00",
		EndTime:             "08:00",
		SlotDurationMinutes: 30,
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsGarbageClock(t *testing.T) {
	svc := New(newFakeStore())

	_, err := svc.Create(context.Background(), transport.CreateRoomRequest{
		Name:                "Sala A",
		StartTime:           "early",
		EndTime:             "18:00",
		SlotDurationMinutes: 30,
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateMissingRoom(t *testing.T) {
	svc := New(newFakeStore())

	_, err := svc.Update(context.Background(), uuid.New(), transport.UpdateRoomRequest{
		Name:                "Sala B",
		StartTime:           "08:00",
		EndTime:             "17:00",
		SlotDurationMinutes: 60,
	})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateRewritesWindow(t *testing.T) {
	store := newFakeStore()
	svc := New(store)

	room, err := svc.Create(context.Background(), transport.CreateRoomRequest{
		Name:                "Sala A",
		StartTime:           "08:00",
		EndTime:             "18:00",
		SlotDurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(context.Background(), room.ID, transport.UpdateRoomRequest{
		Name:                "Sala A1",
		StartTime:           "09:00:00",
		EndTime:             "17:00:00",
		SlotDurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Sala A1" || updated.StartTime != "09:00:00" || updated.SlotDurationMinutes != 60 {
		t.Fatalf("unexpected room after update: %+v", updated)
	}
}
