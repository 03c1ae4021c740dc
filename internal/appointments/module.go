// Package appointments provides the scheduling domain module: booking,
// acceptance, cancellation and listing of room reservations.
package appointments

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"room_portal_backend/internal/appointments/handler"
	"room_portal_backend/internal/appointments/repository"
	"room_portal_backend/internal/appointments/service"
	"room_portal_backend/internal/events"
	apphttp "room_portal_backend/internal/http"
)

// Module represents the appointments domain module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates the appointments module. The customer and room
// collaborators come from their owning modules.
func NewModule(pool *pgxpool.Pool, gate service.PermissionGate, customers service.CustomerDirectory, rooms service.RoomDirectory, bus events.Bus) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, gate, customers, rooms, bus)
	h := handler.New(svc)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "appointments"
}

// RegisterRoutes mounts /api/v1/appointments and /api/v1/admin/appointments.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/appointments"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/appointments"))
}

var _ apphttp.Module = (*Module)(nil)
