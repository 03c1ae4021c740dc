package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"room_portal_backend/internal/events"
	"room_portal_backend/internal/logs/repository"
	"room_portal_backend/platform/apperr"
	"room_portal_backend/platform/logger"
)

type fakeStore struct {
	inserted  []repository.Log
	insertErr error
	lastList  repository.ListParams
}

func (f *fakeStore) Insert(ctx context.Context, log *repository.Log) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *log)
	return nil
}

func (f *fakeStore) List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error) {
	f.lastList = params
	return &repository.ListResult{Page: params.Page, PageSize: params.PageSize}, nil
}

type fakeGate struct {
	denied map[uuid.UUID]bool
}

func (f *fakeGate) AssertCanView(ctx context.Context, customerID uuid.UUID, module string) error {
	if f.denied[customerID] {
		return apperr.ModuleAccessForbidden("access to module " + module + " is blocked")
	}
	return nil
}

type fakeResolver struct {
	customers map[uuid.UUID]uuid.UUID
}

func (f *fakeResolver) CustomerIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	id, ok := f.customers[userID]
	if !ok {
		return uuid.Nil, apperr.NotFound("customer not found")
	}
	return id, nil
}

func newService(store *fakeStore, gate *fakeGate, resolver *fakeResolver) *Service {
	return New(store, gate, resolver, logger.New("test"))
}

func TestSubscribePersistsActivityEvents(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store, &fakeGate{}, &fakeResolver{})
	bus := events.NewInMemoryBus(logger.New("test"))
	svc.Subscribe(bus)

	actorID := uuid.New()
	if err := bus.PublishSync(context.Background(), events.NewUserLoggedIn(actorID, "a@b.com")); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 log row, got %d", len(store.inserted))
	}
	row := store.inserted[0]
	if row.UserID != actorID {
		t.Fatalf("expected actor %s, got %s", actorID, row.UserID)
	}
	if row.Module != "AUTH" || row.Description != "Usuário realizou login" {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestSubscribeSwallowsInsertFailures(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("db down")}
	svc := newService(store, &fakeGate{}, &fakeResolver{})
	bus := events.NewInMemoryBus(logger.New("test"))
	svc.Subscribe(bus)

	if err := bus.PublishSync(context.Background(), events.NewUserLoggedOut(uuid.New())); err != nil {
		t.Fatalf("audit failure must not propagate, got %v", err)
	}
}

func TestListMineEnforcesGate(t *testing.T) {
	userID := uuid.New()
	customerID := uuid.New()
	gate := &fakeGate{denied: map[uuid.UUID]bool{customerID: true}}
	resolver := &fakeResolver{customers: map[uuid.UUID]uuid.UUID{userID: customerID}}
	svc := newService(&fakeStore{}, gate, resolver)

	_, err := svc.ListMine(context.Background(), userID, nil, 1, 20)
	if apperr.GetKind(err) != apperr.KindModuleAccess {
		t.Fatalf("expected module access error, got %v", err)
	}
}

func TestListMineScopesToCaller(t *testing.T) {
	userID := uuid.New()
	store := &fakeStore{}
	resolver := &fakeResolver{customers: map[uuid.UUID]uuid.UUID{userID: uuid.New()}}
	svc := newService(store, &fakeGate{}, resolver)

	if _, err := svc.ListMine(context.Background(), userID, nil, 2, 10); err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if store.lastList.UserID == nil || *store.lastList.UserID != userID {
		t.Fatal("expected list to be scoped to the caller's user id")
	}
	if store.lastList.Page != 2 || store.lastList.PageSize != 10 {
		t.Fatalf("unexpected pagination: %+v", store.lastList)
	}
}

func TestListMineAllowsUsersWithoutCustomerProfile(t *testing.T) {
	svc := newService(&fakeStore{}, &fakeGate{}, &fakeResolver{})

	if _, err := svc.ListMine(context.Background(), uuid.New(), nil, 1, 20); err != nil {
		t.Fatalf("expected admin without customer profile to pass, got %v", err)
	}
}
