// Package customers provides the customers domain module: public
// registration, self-service profile management and the admin customer and
// permission endpoints.
package customers

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"room_portal_backend/internal/customers/handler"
	"room_portal_backend/internal/customers/repository"
	"room_portal_backend/internal/customers/service"
	"room_portal_backend/internal/events"
	apphttp "room_portal_backend/internal/http"
	permissionsrepo "room_portal_backend/internal/permissions/repository"
	permissionssvc "room_portal_backend/internal/permissions/service"
)

// Module represents the customers domain module.
type Module struct {
	handler *handler.Handler

	Service     *service.Service
	Permissions *permissionssvc.Service
}

// NewModule wires the customers module, including the permission service it
// owns on behalf of the admin endpoints.
func NewModule(pool *pgxpool.Pool, bus events.Bus) *Module {
	permsRepo := permissionsrepo.New(pool)
	perms := permissionssvc.New(permsRepo, bus)

	repo := repository.New(pool)
	svc := service.New(repo, perms, bus)
	h := handler.New(svc, perms)

	return &Module{
		handler:     h,
		Service:     svc,
		Permissions: perms,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "customers"
}

// RegisterRoutes mounts the public registration route plus the protected and
// admin customer routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/customers")
	public.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterPublicRoutes(public)

	m.handler.RegisterRoutes(ctx.Protected.Group("/customers"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/customers"))
}

var _ apphttp.Module = (*Module)(nil)
