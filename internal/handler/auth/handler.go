package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/vetcare/clinic-api/internal/handler"
	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/service/auth"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, resp)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, resp)
}

func (h *Handler) Me(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	user, err := h.service.Me(c.Request.Context(), identity.UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, user)
}

// Logout is a stateless acknowledgement. Tokens are not tracked server side,
// so the client simply discards its credential.
func (h *Handler) Logout(c *gin.Context) {
	handler.OK(c, nil)
}
