package service

import (
	"context"

	"github.com/google/uuid"

	"room_portal_backend/internal/events"
	"room_portal_backend/internal/logs/repository"
	"room_portal_backend/internal/permissions"
	"room_portal_backend/platform/apperr"
	"room_portal_backend/platform/logger"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, log *repository.Log) error
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
}

// PermissionGate guards customer access to the logs module.
type PermissionGate interface {
	AssertCanView(ctx context.Context, customerID uuid.UUID, module string) error
}

// CustomerResolver maps an authenticated user to their customer record.
type CustomerResolver interface {
	CustomerIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

type Service struct {
	store     Store
	gate      PermissionGate
	customers CustomerResolver
	log       *logger.Logger
}

func New(store Store, gate PermissionGate, customers CustomerResolver, log *logger.Logger) *Service {
	return &Service{store: store, gate: gate, customers: customers, log: log}
}

// Subscribe registers the service as the sink for every activity event.
// Persistence is best-effort: a failed write is logged and never fails the
// operation that emitted the event.
func (s *Service) Subscribe(bus events.Bus) {
	handler := events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		activity, ok := event.(events.ActivityEvent)
		if !ok {
			return nil
		}
		err := s.store.Insert(ctx, &repository.Log{
			UserID:       activity.ActorID(),
			Module:       activity.Module(),
			ActivityType: activity.ActivityType(),
			Description:  activity.Description(),
			CreatedAt:    activity.OccurredAt(),
		})
		if err != nil {
			s.log.AuditWriteFailed(event.EventName(), err)
		}
		return nil
	})

	for _, name := range events.ActivityEventNames {
		bus.Subscribe(name, handler)
	}
}

// ListMine returns the caller's own activity logs, enforcing the LOGS module
// gate for users with a customer profile.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, module *string, page, pageSize int) (*repository.ListResult, error) {
	customerID, err := s.customers.CustomerIDByUserID(ctx, userID)
	switch {
	case err == nil:
		if err := s.gate.AssertCanView(ctx, customerID, permissions.ModuleLogs); err != nil {
			return nil, err
		}
	case apperr.GetKind(err) == apperr.KindNotFound:
		// Users without a customer profile (admins) are not gated.
	default:
		return nil, err
	}

	return s.store.List(ctx, repository.ListParams{
		UserID:   &userID,
		Module:   module,
		Page:     page,
		PageSize: pageSize,
	})
}

// ListAll returns activity logs across all users with optional filters.
// Admin only, enforced at the routing layer.
func (s *Service) ListAll(ctx context.Context, userID *uuid.UUID, module *string, page, pageSize int) (*repository.ListResult, error) {
	return s.store.List(ctx, repository.ListParams{
		UserID:   userID,
		Module:   module,
		Page:     page,
		PageSize: pageSize,
	})
}
