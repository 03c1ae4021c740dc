package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"room_portal_backend/internal/appointments/service"
	"room_portal_backend/internal/appointments/transport"
	"room_portal_backend/platform/httpkit"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for appointments.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the authenticated appointment routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("/me", h.ListMine)
	rg.PATCH("/:id/cancel", h.Cancel)
}

// RegisterAdminRoutes registers the admin-only appointment routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListAll)
	rg.PATCH("/:id/accept", h.Accept)
	rg.PATCH("/:id/cancel", h.CancelAsAdmin)
}

// Create handles POST /api/v1/appointments
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	appt, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, appt)
}

// ListMine handles GET /api/v1/appointments/me
func (h *Handler) ListMine(c *gin.Context) {
	var req transport.ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListMine(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ListAll handles GET /api/v1/admin/appointments
func (h *Handler) ListAll(c *gin.Context) {
	var req transport.ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.ListAll(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Accept handles PATCH /api/v1/admin/appointments/:id/accept
func (h *Handler) Accept(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	appt, err := h.svc.Accept(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, appt)
}

// Cancel handles PATCH /api/v1/appointments/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	h.cancel(c)
}

// CancelAsAdmin handles PATCH /api/v1/admin/appointments/:id/cancel
func (h *Handler) CancelAsAdmin(c *gin.Context) {
	h.cancel(c)
}

func (h *Handler) cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	appt, err := h.svc.Cancel(c.Request.Context(), id, identity.UserID(), identity.Role())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, appt)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid appointment id", nil)
		return uuid.UUID{}, false
	}
	return id, true
}
