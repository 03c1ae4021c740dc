// Package auth provides the authentication domain module: login, logout and
// the revocation check used by the auth middleware.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"room_portal_backend/internal/auth/handler"
	"room_portal_backend/internal/auth/repository"
	"room_portal_backend/internal/auth/service"
	"room_portal_backend/internal/events"
	apphttp "room_portal_backend/internal/http"
	"room_portal_backend/platform/config"
	"room_portal_backend/platform/logger"
)

// Module represents the auth domain module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates the auth module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, bus, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts the public auth routes (rate limited) and the
// authenticated logout route.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/auth")
	public.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterPublicRoutes(public)

	m.handler.RegisterRoutes(ctx.Protected.Group("/auth"))
}

var _ apphttp.Module = (*Module)(nil)
