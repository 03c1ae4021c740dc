package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"room_portal_backend/internal/appointments/repository"
	"room_portal_backend/internal/appointments/transport"
	"room_portal_backend/internal/events"
	roomsrepo "room_portal_backend/internal/rooms/repository"
	"room_portal_backend/platform/apperr"
)

type fakeStore struct {
	appts     map[uuid.UUID]*repository.AppointmentWithRelations
	rooms     map[uuid.UUID]string
	users     map[uuid.UUID]string // customerID -> display name
	lastList  repository.ListParams
	listTotal int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		appts: make(map[uuid.UUID]*repository.AppointmentWithRelations),
		rooms: make(map[uuid.UUID]string),
		users: make(map[uuid.UUID]string),
	}
}

func (f *fakeStore) FindConflict(ctx context.Context, roomID uuid.UUID, at time.Time) (*repository.Appointment, error) {
	for _, a := range f.appts {
		if a.RoomID == roomID && a.ScheduledAt.Equal(at) && a.Status != repository.StatusCanceled {
			appt := a.Appointment
			return &appt, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Create(ctx context.Context, appt *repository.Appointment) error {
	appt.ID = uuid.New()
	appt.Status = repository.StatusPending

	record := &repository.AppointmentWithRelations{Appointment: *appt}
	if name, ok := f.rooms[appt.RoomID]; ok {
		record.RoomName = &name
	}
	customerID := appt.CustomerID
	record.LiveCustomerID = &customerID
	if name, ok := f.users[appt.CustomerID]; ok {
		record.CustomerName = &name
	}
	f.appts[appt.ID] = record
	return nil
}

func (f *fakeStore) GetWithRelations(ctx context.Context, id uuid.UUID) (*repository.AppointmentWithRelations, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, apperr.NotFound("appointment not found")
	}
	copied := *a
	return &copied, nil
}

func (f *fakeStore) List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error) {
	f.lastList = params
	return &repository.ListResult{Total: f.listTotal}, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (*repository.AppointmentWithRelations, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, apperr.NotFound("appointment not found")
	}
	a.Status = newStatus
	copied := *a
	return &copied, nil
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

type fakeCustomers struct {
	byUser map[uuid.UUID]uuid.UUID
}

func (f *fakeCustomers) CustomerIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	id, ok := f.byUser[userID]
	if !ok {
		return uuid.Nil, apperr.NotFound("customer not found")
	}
	return id, nil
}

type fakeRooms struct {
	rooms map[uuid.UUID]*roomsrepo.Room
}

func (f *fakeRooms) GetByID(ctx context.Context, id uuid.UUID) (*roomsrepo.Room, error) {
	room, ok := f.rooms[id]
	if !ok {
		return nil, apperr.NotFound("room not found")
	}
	return room, nil
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(ctx context.Context, event events.Event) {
	f.published = append(f.published, event)
}
func (f *fakeBus) PublishSync(ctx context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}
func (f *fakeBus) Subscribe(eventName string, handler events.Handler) {}

type fixture struct {
	svc        *Service
	store      *fakeStore
	gate       *fakeGate
	bus        *fakeBus
	userID     uuid.UUID
	customerID uuid.UUID
	roomID     uuid.UUID
}

func newFixture() *fixture {
	store := newFakeStore()
	gate := &fakeGate{denied: make(map[uuid.UUID]bool)}
	bus := &fakeBus{}

	userID := uuid.New()
	customerID := uuid.New()
	roomID := uuid.New()

	customers := &fakeCustomers{byUser: map[uuid.UUID]uuid.UUID{userID: customerID}}
	rooms := &fakeRooms{rooms: map[uuid.UUID]*roomsrepo.Room{
		roomID: {ID: roomID, Name: "Sala Azul", StartTime: "08:00:00", EndTime: "18:00:00", SlotDurationMinutes: 60},
	}}
	store.rooms[roomID] = "Sala Azul"
	store.users[customerID] = "Maria Silva"

	return &fixture{
		svc:        New(store, gate, customers, rooms, bus),
		store:      store,
		gate:       gate,
		bus:        bus,
		userID:     userID,
		customerID: customerID,
		roomID:     roomID,
	}
}

func (fx *fixture) create(t *testing.T, scheduledAt string) *transport.AppointmentResponse {
	t.Helper()
	appt, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateAppointmentRequest{
		RoomID:      fx.roomID.String(),
		ScheduledAt: scheduledAt,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return appt
}

func TestCreateBooksPendingAppointment(t *testing.T) {
	fx := newFixture()

	appt := fx.create(t, "2026-01-20T10:00:00")

	if appt.Status != repository.StatusPending {
		t.Fatalf("expected PENDING, got %s", appt.Status)
	}
	if appt.ScheduledAt != "2026-01-20T10:00:00-03:00" {
		t.Fatalf("expected display string in fixed offset, got %s", appt.ScheduledAt)
	}
	if appt.Room == nil || appt.Room.Name != "Sala Azul" {
		t.Fatalf("expected room summary, got %+v", appt.Room)
	}
	if appt.Customer == nil || appt.Customer.ID != fx.customerID {
		t.Fatalf("expected customer summary, got %+v", appt.Customer)
	}

	stored := fx.store.appts[appt.ID]
	wantInstant := time.Date(2026, 1, 20, 13, 0, 0, 0, time.UTC)
	if !stored.ScheduledAt.Equal(wantInstant) {
		t.Fatalf("expected stored instant %v, got %v", wantInstant, stored.ScheduledAt)
	}
}

func TestCreateConflictSameRoomSameInstant(t *testing.T) {
	fx := newFixture()
	fx.create(t, "2026-01-20T10:00:00")

	_, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateAppointmentRequest{
		RoomID:      fx.roomID.String(),
		ScheduledAt: "2026-01-20T10:00:00",
	})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateSameInstantDifferentRoomsDoesNotConflict(t *testing.T) {
	fx := newFixture()
	fx.create(t, "2026-01-20T10:00:00")

	otherRoom := uuid.New()
	fx.store.rooms[otherRoom] = "Sala Verde"
	fx.svc.rooms.(*fakeRooms).rooms[otherRoom] = &roomsrepo.Room{ID: otherRoom, Name: "Sala Verde"}

	_, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateAppointmentRequest{
		RoomID:      otherRoom.String(),
		ScheduledAt: "2026-01-20T10:00:00",
	})
	if err != nil {
		t.Fatalf("exclusivity is per room, got %v", err)
	}
}

func TestCancelFreesTheSlot(t *testing.T) {
	fx := newFixture()
	appt := fx.create(t, "2026-01-20T10:00:00")

	if _, err := fx.svc.Cancel(context.Background(), appt.ID, fx.userID, "CUSTOMER"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if _, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateAppointmentRequest{
		RoomID:      fx.roomID.String(),
		ScheduledAt: "2026-01-20T10:00:00",
	}); err != nil {
		t.Fatalf("canceled appointment must not block rebooking, got %v", err)
	}
}

func TestCreateDeniedByPermissionGate(t *testing.T) {
	fx := newFixture()
	fx.gate.denied[fx.customerID] = true

	_, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateAppointmentRequest{
		RoomID:      fx.roomID.String(),
		ScheduledAt: "2026-01-20T10:00:00",
	})
	if apperr.GetKind(err) != apperr.KindModuleAccess {
		t.Fatalf("expected module access error, got %v", err)
	}
}

func TestCreateUnknownRoom(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateAppointmentRequest{
		RoomID:      uuid.New().String(),
		ScheduledAt: "2026-01-20T10:00:00",
	})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateUnknownCustomer(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Create(context.Background(), uuid.New(), transport.CreateAppointmentRequest{
		RoomID:      fx.roomID.String(),
		ScheduledAt: "2026-01-20T10:00:00",
	})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateRejectsGarbageDateTime(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateAppointmentRequest{
		RoomID:      fx.roomID.String(),
		ScheduledAt: "not-a-date",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAcceptPendingAppointment(t *testing.T) {
	fx := newFixture()
	appt := fx.create(t, "2026-01-20T10:00:00")
	adminID := uuid.New()

	accepted, err := fx.svc.Accept(context.Background(), appt.ID, adminID)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if accepted.Status != repository.StatusScheduled {
		t.Fatalf("expected SCHEDULED, got %s", accepted.Status)
	}
}

func TestAcceptRejectsNonPending(t *testing.T) {
	fx := newFixture()
	appt := fx.create(t, "2026-01-20T10:00:00")
	adminID := uuid.New()

	if _, err := fx.svc.Accept(context.Background(), appt.ID, adminID); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	_, err := fx.svc.Accept(context.Background(), appt.ID, adminID)
	if apperr.GetKind(err) != apperr.KindInvalidStatus {
		t.Fatalf("expected invalid status, got %v", err)
	}
}

func TestAcceptUnknownAppointment(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Accept(context.Background(), uuid.New(), uuid.New())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCancelFromScheduled(t *testing.T) {
	fx := newFixture()
	appt := fx.create(t, "2026-01-20T10:00:00")
	adminID := uuid.New()

	if _, err := fx.svc.Accept(context.Background(), appt.ID, adminID); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	canceled, err := fx.svc.Cancel(context.Background(), appt.ID, adminID, "ADMIN")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if canceled.Status != repository.StatusCanceled {
		t.Fatalf("expected CANCELED, got %s", canceled.Status)
	}
}

func TestCancelIsTerminal(t *testing.T) {
	fx := newFixture()
	appt := fx.create(t, "2026-01-20T10:00:00")

	if _, err := fx.svc.Cancel(context.Background(), appt.ID, fx.userID, "CUSTOMER"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	_, err := fx.svc.Cancel(context.Background(), appt.ID, fx.userID, "CUSTOMER")
	if apperr.GetKind(err) != apperr.KindInvalidStatus {
		t.Fatalf("expected invalid status, got %v", err)
	}
}

func TestCustomerCannotCancelForeignAppointment(t *testing.T) {
	fx := newFixture()
	appt := fx.create(t, "2026-01-20T10:00:00")

	otherUser := uuid.New()
	fx.svc.customers.(*fakeCustomers).byUser[otherUser] = uuid.New()

	_, err := fx.svc.Cancel(context.Background(), appt.ID, otherUser, "CUSTOMER")
	if apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAdminCanCancelAnyAppointment(t *testing.T) {
	fx := newFixture()
	appt := fx.create(t, "2026-01-20T10:00:00")

	if _, err := fx.svc.Cancel(context.Background(), appt.ID, uuid.New(), "ADMIN"); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
}

func TestCreatePublishesActivityEvent(t *testing.T) {
	fx := newFixture()
	fx.create(t, "2026-01-20T10:00:00")

	if len(fx.bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(fx.bus.published))
	}
	evt, ok := fx.bus.published[0].(events.AppointmentCreated)
	if !ok {
		t.Fatalf("expected AppointmentCreated, got %T", fx.bus.published[0])
	}
	if evt.ActorID() != fx.userID {
		t.Fatalf("expected actor %s, got %s", fx.userID, evt.ActorID())
	}
	want := "Criação de agendamento para Maria Silva na Sala Azul em 2026-01-20T10:00:00-03:00"
	if evt.Description() != want {
		t.Fatalf("unexpected description:\n got %q\nwant %q", evt.Description(), want)
	}
}

func TestListMineScopesToOwnCustomer(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.ListMine(context.Background(), fx.userID, transport.ListAppointmentsRequest{
		Page: 1, PageSize: 10, Sort: "desc",
		From: "2026-01-01T00:00:00", To: "2026-01-31T23:59:59",
	})
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}

	params := fx.store.lastList
	if params.CustomerID == nil || *params.CustomerID != fx.customerID {
		t.Fatal("expected listing scoped to the caller's customer id")
	}
	if params.SortDirection != "desc" {
		t.Fatalf("expected desc sort, got %q", params.SortDirection)
	}
	wantFrom := time.Date(2026, 1, 1, 3, 0, 0, 0, time.UTC)
	if params.From == nil || !params.From.Equal(wantFrom) {
		t.Fatalf("expected from %v, got %v", wantFrom, params.From)
	}
}

func TestListAllWithCustomerFilter(t *testing.T) {
	fx := newFixture()
	target := uuid.New()

	_, err := fx.svc.ListAll(context.Background(), transport.ListAppointmentsRequest{
		Page: 1, PageSize: 10, CustomerID: target.String(),
	})
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if fx.store.lastList.CustomerID == nil || *fx.store.lastList.CustomerID != target {
		t.Fatal("expected customer filter to be applied")
	}
	if fx.store.lastList.SortDirection != "asc" {
		t.Fatalf("expected default asc sort, got %q", fx.store.lastList.SortDirection)
	}
}

func TestListPastLastPageKeepsTotal(t *testing.T) {
	fx := newFixture()
	fx.store.listTotal = 3

	resp, err := fx.svc.ListAll(context.Background(), transport.ListAppointmentsRequest{
		Page: 9, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Fatalf("expected empty page, got %d items", len(resp.Data))
	}
	if resp.Meta.Total != 3 {
		t.Fatalf("expected total 3, got %d", resp.Meta.Total)
	}
	if resp.Meta.Page != 9 || resp.Meta.PageSize != 10 {
		t.Fatalf("expected meta to echo requested page, got %+v", resp.Meta)
	}
}

func TestCancelDescriptionUsesPortugueseLabel(t *testing.T) {
	fx := newFixture()
	appt := fx.create(t, "2026-01-20T10:00:00")

	if _, err := fx.svc.Cancel(context.Background(), appt.ID, fx.userID, "CUSTOMER"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	last := fx.bus.published[len(fx.bus.published)-1]
	evt, ok := last.(events.AppointmentCanceled)
	if !ok {
		t.Fatalf("expected AppointmentCanceled, got %T", last)
	}
	if !strings.HasPrefix(evt.Description(), "Cancelamento de agendamento para Maria Silva") {
		t.Fatalf("unexpected description: %q", evt.Description())
	}
}
