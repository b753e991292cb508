package clinic

import (
	"github.com/gin-gonic/gin"

	"github.com/vetcare/clinic-api/internal/handler"
	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/service/clinic"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Handler struct {
	service *clinic.Service
}

func NewHandler(service *clinic.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Me(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	found, err := h.service.Me(c.Request.Context(), identity)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, found)
}

func (h *Handler) Update(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	var req model.UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), identity, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, updated)
}

func (h *Handler) Stats(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), identity)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, stats)
}
