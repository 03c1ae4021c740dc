// Package rooms provides the rooms domain module.
package rooms

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "room_portal_backend/internal/http"
	"room_portal_backend/internal/rooms/handler"
	"room_portal_backend/internal/rooms/repository"
	"room_portal_backend/internal/rooms/service"
	"room_portal_backend/platform/validator"
)

// Module represents the rooms domain module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates the rooms module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "rooms"
}

// RegisterRoutes mounts /api/v1/rooms and /api/v1/admin/rooms.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/rooms"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/rooms"))
}

var _ apphttp.Module = (*Module)(nil)
