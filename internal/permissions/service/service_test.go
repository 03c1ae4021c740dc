package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"room_portal_backend/internal/events"
	"room_portal_backend/internal/permissions"
	"room_portal_backend/internal/permissions/repository"
	"room_portal_backend/platform/apperr"
)

type fakeStore struct {
	rows map[string]repository.Permission // keyed by customerID+module
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]repository.Permission)}
}

func key(customerID uuid.UUID, module string) string {
	return customerID.String() + "/" + module
}

func (f *fakeStore) InTx(ctx context.Context, fn func(q repository.DBTX) error) error {
	return fn(nil)
}

func (f *fakeStore) Find(ctx context.Context, _ repository.DBTX, customerID uuid.UUID, module string) (*repository.Permission, error) {
	p, ok := f.rows[key(customerID, module)]
	if !ok {
		return nil, apperr.NotFound("permission not found")
	}
	return &p, nil
}

func (f *fakeStore) FindAll(ctx context.Context, _ repository.DBTX, customerID uuid.UUID) ([]repository.Permission, error) {
	var out []repository.Permission
	for _, p := range f.rows {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) Upsert(ctx context.Context, _ repository.DBTX, customerID uuid.UUID, module string, canView bool) error {
	f.rows[key(customerID, module)] = repository.Permission{
		ID:         uuid.New(),
		CustomerID: customerID,
		Module:     module,
		CanView:    canView,
	}
	return nil
}

func (f *fakeStore) CreateDefaults(ctx context.Context, _ repository.DBTX, customerID uuid.UUID, modules []string) error {
	for _, m := range modules {
		if err := f.Upsert(ctx, nil, customerID, m, true); err != nil {
			return err
		}
	}
	return nil
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(ctx context.Context, event events.Event)          { f.published = append(f.published, event) }
func (f *fakeBus) PublishSync(ctx context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}
func (f *fakeBus) Subscribe(eventName string, handler events.Handler) {}

func TestAssertCanViewDefaultsToAllowed(t *testing.T) {
	svc := New(newFakeStore(), &fakeBus{})

	if err := svc.AssertCanView(context.Background(), uuid.New(), permissions.ModuleAppointments); err != nil {
		t.Fatalf("expected access without explicit row, got %v", err)
	}
}

func TestAssertCanViewDeniesExplicitBlock(t *testing.T) {
	store := newFakeStore()
	customerID := uuid.New()
	store.Upsert(context.Background(), nil, customerID, permissions.ModuleLogs, false)
	svc := New(store, &fakeBus{})

	err := svc.AssertCanView(context.Background(), customerID, permissions.ModuleLogs)
	if apperr.GetKind(err) != apperr.KindModuleAccess {
		t.Fatalf("expected module access error, got %v", err)
	}
}

func TestAssertCanViewAllowsExplicitAllow(t *testing.T) {
	store := newFakeStore()
	customerID := uuid.New()
	store.Upsert(context.Background(), nil, customerID, permissions.ModuleLogs, true)
	svc := New(store, &fakeBus{})

	if err := svc.AssertCanView(context.Background(), customerID, permissions.ModuleLogs); err != nil {
		t.Fatalf("expected access with explicit allow row, got %v", err)
	}
}

func TestPermissionsFillsDefaults(t *testing.T) {
	store := newFakeStore()
	customerID := uuid.New()
	store.Upsert(context.Background(), nil, customerID, permissions.ModuleLogs, false)
	svc := New(store, &fakeBus{})

	perms, err := svc.Permissions(context.Background(), customerID)
	if err != nil {
		t.Fatalf("Permissions: %v", err)
	}
	if len(perms) != len(permissions.Modules) {
		t.Fatalf("expected %d modules, got %d", len(permissions.Modules), len(perms))
	}
	byModule := make(map[string]bool)
	for _, p := range perms {
		byModule[p.Module] = p.CanView
	}
	if byModule[permissions.ModuleLogs] {
		t.Fatal("expected LOGS to be blocked")
	}
	if !byModule[permissions.ModuleAppointments] {
		t.Fatal("expected APPOINTMENTS to default to allowed")
	}
}

func TestUpdatePermissionsEmitsEventOnlyWhenChanged(t *testing.T) {
	store := newFakeStore()
	bus := &fakeBus{}
	svc := New(store, bus)
	actorID := uuid.New()
	customerID := uuid.New()

	// First update: APPOINTMENTS flips from default-true to false.
	_, err := svc.UpdatePermissions(context.Background(), actorID, customerID, []Update{
		{Module: permissions.ModuleAppointments, CanView: false},
	})
	if err != nil {
		t.Fatalf("UpdatePermissions: %v", err)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	evt, ok := bus.published[0].(events.PermissionsUpdated)
	if !ok {
		t.Fatalf("expected PermissionsUpdated, got %T", bus.published[0])
	}
	if !strings.Contains(evt.Description(), "APPOINTMENTS: permitido -> bloqueado") {
		t.Fatalf("unexpected change description: %q", evt.Description())
	}

	// Same values again: no effective change, no new event.
	_, err = svc.UpdatePermissions(context.Background(), actorID, customerID, []Update{
		{Module: permissions.ModuleAppointments, CanView: false},
	})
	if err != nil {
		t.Fatalf("UpdatePermissions: %v", err)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected no new event for unchanged values, got %d", len(bus.published))
	}
}

func TestUpdatePermissionsRejectsUnknownModule(t *testing.T) {
	svc := New(newFakeStore(), &fakeBus{})

	_, err := svc.UpdatePermissions(context.Background(), uuid.New(), uuid.New(), []Update{
		{Module: "BILLING", CanView: false},
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
