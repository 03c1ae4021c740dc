package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"room_portal_backend/internal/events"
	"room_portal_backend/internal/permissions"
	"room_portal_backend/internal/permissions/repository"
	"room_portal_backend/platform/apperr"
)

// Store is the persistence surface the service needs.
type Store interface {
	InTx(ctx context.Context, fn func(q repository.DBTX) error) error
	Find(ctx context.Context, q repository.DBTX, customerID uuid.UUID, module string) (*repository.Permission, error)
	FindAll(ctx context.Context, q repository.DBTX, customerID uuid.UUID) ([]repository.Permission, error)
	Upsert(ctx context.Context, q repository.DBTX, customerID uuid.UUID, module string, canView bool) error
	CreateDefaults(ctx context.Context, q repository.DBTX, customerID uuid.UUID, modules []string) error
}

// Update is one requested module/canView change.
type Update struct {
	Module  string
	CanView bool
}

// ModulePermission is the effective view permission for one module.
type ModulePermission struct {
	Module  string `json:"module"`
	CanView bool   `json:"canView"`
}

type Service struct {
	store Store
	bus   events.Bus
}

func New(store Store, bus events.Bus) *Service {
	return &Service{store: store, bus: bus}
}

// AssertCanView enforces the module gate for a customer. An absent row means
// access is allowed; an explicit can_view=false row denies.
func (s *Service) AssertCanView(ctx context.Context, customerID uuid.UUID, module string) error {
	p, err := s.store.Find(ctx, nil, customerID, module)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil
		}
		return err
	}
	if !p.CanView {
		return apperr.ModuleAccessForbidden(fmt.Sprintf("access to module %s is blocked", module))
	}
	return nil
}

// Permissions returns the effective permission for every known module,
// defaulting to allowed where no explicit row exists.
func (s *Service) Permissions(ctx context.Context, customerID uuid.UUID) ([]ModulePermission, error) {
	rows, err := s.store.FindAll(ctx, nil, customerID)
	if err != nil {
		return nil, err
	}

	explicit := make(map[string]bool, len(rows))
	for _, r := range rows {
		explicit[r.Module] = r.CanView
	}

	out := make([]ModulePermission, 0, len(permissions.Modules))
	for _, m := range permissions.Modules {
		canView := true
		if v, ok := explicit[m]; ok {
			canView = v
		}
		out = append(out, ModulePermission{Module: m, CanView: canView})
	}
	return out, nil
}

// UpdatePermissions applies the requested changes in one transaction. Only
// modules whose effective value actually changes are recorded; when at least
// one changed, a single activity event describing every change is published.
func (s *Service) UpdatePermissions(ctx context.Context, actorID, customerID uuid.UUID, updates []Update) ([]ModulePermission, error) {
	for _, u := range updates {
		if !permissions.IsValidModule(u.Module) {
			return nil, apperr.Validation("unknown module: " + u.Module)
		}
	}

	var changes []string
	err := s.store.InTx(ctx, func(q repository.DBTX) error {
		rows, err := s.store.FindAll(ctx, q, customerID)
		if err != nil {
			return err
		}
		effective := make(map[string]bool, len(permissions.Modules))
		for _, m := range permissions.Modules {
			effective[m] = true
		}
		for _, r := range rows {
			effective[r.Module] = r.CanView
		}

		for _, u := range updates {
			if effective[u.Module] != u.CanView {
				changes = append(changes, fmt.Sprintf("%s: %s -> %s",
					u.Module, permissionLabel(effective[u.Module]), permissionLabel(u.CanView)))
			}
			if err := s.store.Upsert(ctx, q, customerID, u.Module, u.CanView); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		s.bus.Publish(ctx, events.NewPermissionsUpdated(actorID, customerID, changes, strings.Join(changes, "; ")))
	}

	return s.Permissions(ctx, customerID)
}

// CreateDefaults seeds allow rows for every known module inside the caller's
// transaction. Used by customer registration.
func (s *Service) CreateDefaults(ctx context.Context, q repository.DBTX, customerID uuid.UUID) error {
	return s.store.CreateDefaults(ctx, q, customerID, permissions.Modules)
}

func permissionLabel(canView bool) string {
	if canView {
		return "permitido"
	}
	return "bloqueado"
}
