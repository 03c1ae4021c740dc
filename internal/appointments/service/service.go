package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"room_portal_backend/internal/appointments/repository"
	"room_portal_backend/internal/appointments/transport"
	"room_portal_backend/internal/authz"
	"room_portal_backend/internal/civiltime"
	"room_portal_backend/internal/events"
	"room_portal_backend/internal/permissions"
	roomsrepo "room_portal_backend/internal/rooms/repository"
	"room_portal_backend/platform/apperr"
)

// Store is the persistence surface the scheduling service needs.
type Store interface {
	FindConflict(ctx context.Context, roomID uuid.UUID, at time.Time) (*repository.Appointment, error)
	Create(ctx context.Context, appt *repository.Appointment) error
	GetWithRelations(ctx context.Context, id uuid.UUID) (*repository.AppointmentWithRelations, error)
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (*repository.AppointmentWithRelations, error)
}

// PermissionGate guards customer access to the appointments module.
type PermissionGate interface {
	AssertCanView(ctx context.Context, customerID uuid.UUID, module string) error
}

// CustomerDirectory maps an authenticated user to their customer record.
type CustomerDirectory interface {
	CustomerIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// RoomDirectory exposes the room lookup the booking flow needs.
type RoomDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*roomsrepo.Room, error)
}

type Service struct {
	store     Store
	gate      PermissionGate
	customers CustomerDirectory
	rooms     RoomDirectory
	bus       events.Bus
}

func New(store Store, gate PermissionGate, customers CustomerDirectory, rooms RoomDirectory, bus events.Bus) *Service {
	return &Service{store: store, gate: gate, customers: customers, rooms: rooms, bus: bus}
}

// Create books a room for the caller's customer at the requested civil time.
// The slot must be free of non-canceled appointments at that exact instant.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateAppointmentRequest) (*transport.AppointmentResponse, error) {
	customerID, err := s.customers.CustomerIDByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AssertCanView(ctx, customerID, permissions.ModuleAppointments); err != nil {
		return nil, err
	}

	at, err := civiltime.ToInstant(req.ScheduledAt)
	if err != nil {
		return nil, err
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, apperr.Validation("invalid room id")
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}

	conflict, err := s.store.FindConflict(ctx, roomID, at)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, apperr.Conflict("room already booked at this time")
	}

	appt := &repository.Appointment{
		CustomerID:  customerID,
		RoomID:      roomID,
		ScheduledAt: at,
	}
	if err := s.store.Create(ctx, appt); err != nil {
		return nil, err
	}

	record, err := s.store.GetWithRelations(ctx, appt.ID)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NewAppointmentCreated(
		userID, record.ID, record.RoomID, record.CustomerID,
		buildLogDescription("Criação de agendamento", record),
	))

	return toResponse(record), nil
}

// ListMine returns the caller's own appointments.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, req transport.ListAppointmentsRequest) (*transport.ListAppointmentsResponse, error) {
	customerID, err := s.customers.CustomerIDByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AssertCanView(ctx, customerID, permissions.ModuleAppointments); err != nil {
		return nil, err
	}

	params, err := buildListParams(req, &customerID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, params)
}

// ListAll returns appointments across all customers, optionally filtered.
// Admin only, enforced at the routing layer.
func (s *Service) ListAll(ctx context.Context, req transport.ListAppointmentsRequest) (*transport.ListAppointmentsResponse, error) {
	var customerID *uuid.UUID
	if req.CustomerID != "" {
		id, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, apperr.Validation("invalid customer id")
		}
		customerID = &id
	}

	params, err := buildListParams(req, customerID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, params)
}

// Accept moves a PENDING appointment to SCHEDULED. Admin only, enforced at
// the routing layer.
func (s *Service) Accept(ctx context.Context, id, actorID uuid.UUID) (*transport.AppointmentResponse, error) {
	appt, err := s.store.GetWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != repository.StatusPending {
		return nil, apperr.InvalidStatus("appointment status does not allow this action")
	}

	updated, err := s.store.UpdateStatus(ctx, id, repository.StatusScheduled)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NewAppointmentAccepted(
		actorID, updated.ID,
		buildLogDescription("Aceite de agendamento", updated),
	))

	return toResponse(updated), nil
}

// Cancel moves a PENDING or SCHEDULED appointment to CANCELED. Customers may
// only cancel their own appointments; admins may cancel any.
func (s *Service) Cancel(ctx context.Context, id, actorUserID uuid.UUID, actorRole string) (*transport.AppointmentResponse, error) {
	appt, err := s.store.GetWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.IsAdmin(actorRole) {
		customerID, err := s.customers.CustomerIDByUserID(ctx, actorUserID)
		if err != nil || !authz.IsOwner(customerID, appt.CustomerID) {
			return nil, apperr.Forbidden("you do not have access to this appointment")
		}
	}

	if appt.Status != repository.StatusPending && appt.Status != repository.StatusScheduled {
		return nil, apperr.InvalidStatus("appointment status does not allow this action")
	}

	updated, err := s.store.UpdateStatus(ctx, id, repository.StatusCanceled)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NewAppointmentCanceled(
		actorUserID, updated.ID,
		buildLogDescription("Cancelamento de agendamento", updated),
	))

	return toResponse(updated), nil
}

func (s *Service) list(ctx context.Context, params repository.ListParams) (*transport.ListAppointmentsResponse, error) {
	result, err := s.store.List(ctx, params)
	if err != nil {
		return nil, err
	}

	data := make([]transport.AppointmentResponse, 0, len(result.Items))
	for i := range result.Items {
		data = append(data, *toResponse(&result.Items[i]))
	}

	return &transport.ListAppointmentsResponse{
		Data: data,
		Meta: transport.Meta{
			Page:     params.Page,
			PageSize: params.PageSize,
			Total:    result.Total,
			Sort:     params.SortDirection,
		},
	}, nil
}

func buildListParams(req transport.ListAppointmentsRequest, customerID *uuid.UUID) (repository.ListParams, error) {
	params := repository.ListParams{
		CustomerID:    customerID,
		Page:          req.Page,
		PageSize:      req.PageSize,
		SortDirection: req.Sort,
	}
	if params.SortDirection == "" {
		params.SortDirection = "asc"
	}

	if req.From != "" {
		from, err := civiltime.ToInstant(req.From)
		if err != nil {
			return repository.ListParams{}, err
		}
		params.From = &from
	}
	if req.To != "" {
		to, err := civiltime.ToInstant(req.To)
		if err != nil {
			return repository.ListParams{}, err
		}
		params.To = &to
	}
	return params, nil
}

func toResponse(record *repository.AppointmentWithRelations) *transport.AppointmentResponse {
	resp := &transport.AppointmentResponse{
		ID:          record.ID,
		RoomID:      record.RoomID,
		CustomerID:  record.CustomerID,
		ScheduledAt: civiltime.DisplayString(record.ScheduledAt),
		Status:      record.Status,
	}
	if record.RoomName != nil {
		resp.Room = &transport.RoomSummary{ID: record.RoomID, Name: *record.RoomName}
	}
	if record.LiveCustomerID != nil {
		resp.Customer = &transport.CustomerSummary{
			ID:    *record.LiveCustomerID,
			Name:  record.CustomerName,
			Email: record.CustomerEmail,
		}
	}
	return resp
}

func buildLogDescription(prefix string, record *repository.AppointmentWithRelations) string {
	displayTime := civiltime.DisplayString(record.ScheduledAt)
	roomName := fmt.Sprintf("Sala %s", record.RoomID)
	if record.RoomName != nil {
		roomName = *record.RoomName
	}
	if record.CustomerName != nil {
		return fmt.Sprintf("%s para %s na %s em %s", prefix, *record.CustomerName, roomName, displayTime)
	}
	return fmt.Sprintf("%s na %s em %s", prefix, roomName, displayTime)
}
