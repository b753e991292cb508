package notification

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/handler"
	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/service/notification"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Handler struct {
	service *notification.Service
}

func NewHandler(service *notification.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	notifications, err := h.service.ListForUser(c.Request.Context(), identity.UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, notifications)
}

func (h *Handler) MarkRead(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperror.Validation("invalid id"))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id, identity.UserID); err != nil {
		handler.Error(c, err)
		return
	}
	handler.NoContent(c)
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	if err := h.service.MarkAllRead(c.Request.Context(), identity.UserID); err != nil {
		handler.Error(c, err)
		return
	}
	handler.NoContent(c)
}

func (h *Handler) ClearRead(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	if err := h.service.ClearRead(c.Request.Context(), identity.UserID); err != nil {
		handler.Error(c, err)
		return
	}
	handler.NoContent(c)
}
