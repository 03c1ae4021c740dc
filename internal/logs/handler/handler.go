package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"room_portal_backend/internal/logs/service"
	"room_portal_backend/internal/logs/transport"
	"room_portal_backend/platform/httpkit"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for activity logs.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the authenticated log routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.ListMine)
}

// RegisterAdminRoutes registers the admin-only log routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListAll)
}

// ListMine handles GET /api/v1/logs/me
func (h *Handler) ListMine(c *gin.Context) {
	var req transport.ListLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListMine(c.Request.Context(), identity.UserID(), moduleFilter(req), req.Page, req.PageSize)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromResult(result))
}

// ListAll handles GET /api/v1/admin/logs
func (h *Handler) ListAll(c *gin.Context) {
	var req transport.ListLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	var userID *uuid.UUID
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid user id", nil)
			return
		}
		userID = &id
	}

	result, err := h.svc.ListAll(c.Request.Context(), userID, moduleFilter(req), req.Page, req.PageSize)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromResult(result))
}

func moduleFilter(req transport.ListLogsRequest) *string {
	if req.Module == "" {
		return nil
	}
	return &req.Module
}
