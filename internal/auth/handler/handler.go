package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"room_portal_backend/internal/auth/service"
	"room_portal_backend/internal/auth/transport"
	"room_portal_backend/platform/httpkit"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for authentication.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes registers the unauthenticated auth routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.POST("/check-email", h.CheckEmail)
}

// RegisterRoutes registers the authenticated auth routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/logout", h.Logout)
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	accessToken, user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.LoginResponse{
		AccessToken: accessToken,
		User:        transport.FromUser(user),
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	rawToken := bearerToken(c)
	if rawToken == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Logout(c.Request.Context(), identity.UserID(), rawToken); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

// CheckEmail handles POST /api/v1/auth/check-email
func (h *Handler) CheckEmail(c *gin.Context) {
	var req transport.CheckEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	available, err := h.svc.EmailAvailable(c.Request.Context(), req.Email)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.CheckEmailResponse{Available: available})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
