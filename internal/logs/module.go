// Package logs provides the activity-log domain module: the audit sink every
// other module publishes into, plus the read endpoints.
package logs

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"room_portal_backend/internal/events"
	apphttp "room_portal_backend/internal/http"
	"room_portal_backend/internal/logs/handler"
	"room_portal_backend/internal/logs/repository"
	"room_portal_backend/internal/logs/service"
	"room_portal_backend/platform/logger"
)

// Module represents the logs domain module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule wires the logs module and subscribes it to the event bus.
func NewModule(pool *pgxpool.Pool, bus events.Bus, gate service.PermissionGate, customers service.CustomerResolver, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, gate, customers, log)
	svc.Subscribe(bus)
	h := handler.New(svc)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "logs"
}

// RegisterRoutes mounts /api/v1/logs/me and /api/v1/admin/logs.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/logs"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/logs"))
}

var _ apphttp.Module = (*Module)(nil)
