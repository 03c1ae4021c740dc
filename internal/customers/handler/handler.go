package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"room_portal_backend/internal/customers/service"
	"room_portal_backend/internal/customers/transport"
	permissionssvc "room_portal_backend/internal/permissions/service"
	"room_portal_backend/platform/httpkit"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for customers.
type Handler struct {
	svc   *service.Service
	perms *permissionssvc.Service
}

func New(svc *service.Service, perms *permissionssvc.Service) *Handler {
	return &Handler{svc: svc, perms: perms}
}

// RegisterPublicRoutes registers the unauthenticated registration route.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
}

// RegisterRoutes registers the authenticated self-service routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
	rg.PATCH("/me", h.UpdateMe)
}

// RegisterAdminRoutes registers the admin customer-management routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/permissions", h.GetPermissions)
	rg.PUT("/:id/permissions", h.UpdatePermissions)
}

// Register handles POST /api/v1/customers/register
func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	profile, err := h.svc.Register(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.FromProfile(profile))
}

// Me handles GET /api/v1/customers/me
func (h *Handler) Me(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	profile, err := h.svc.Me(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromProfile(profile))
}

// UpdateMe handles PATCH /api/v1/customers/me
func (h *Handler) UpdateMe(c *gin.Context) {
	var req transport.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	profile, err := h.svc.UpdateMe(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromProfile(profile))
}

// List handles GET /api/v1/admin/customers
func (h *Handler) List(c *gin.Context) {
	var req transport.ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromResult(result))
}

// GetByID handles GET /api/v1/admin/customers/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	profile, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromProfile(profile))
}

// Delete handles DELETE /api/v1/admin/customers/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

// GetPermissions handles GET /api/v1/admin/customers/:id/permissions
func (h *Handler) GetPermissions(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// 404 for unknown customers rather than an empty default set.
	if _, err := h.svc.GetByID(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	perms, err := h.perms.Permissions(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"permissions": perms})
}

// UpdatePermissions handles PUT /api/v1/admin/customers/:id/permissions
func (h *Handler) UpdatePermissions(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdatePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if _, err := h.svc.GetByID(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	updates := make([]permissionssvc.Update, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		updates = append(updates, permissionssvc.Update{Module: p.Module, CanView: *p.CanView})
	}

	perms, err := h.perms.UpdatePermissions(c.Request.Context(), identity.UserID(), id, updates)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"permissions": perms})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid customer id", nil)
		return uuid.UUID{}, false
	}
	return id, true
}
