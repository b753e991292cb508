package analytics

import (
	"github.com/gin-gonic/gin"

	"github.com/vetcare/clinic-api/internal/handler"
	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/service/analytics"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Handler struct {
	service *analytics.Service
}

func NewHandler(service *analytics.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Dashboard(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	stats, err := h.service.Dashboard(c.Request.Context(), identity.ClinicID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, stats)
}

func (h *Handler) Today(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	overview, err := h.service.Today(c.Request.Context(), identity.ClinicID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, overview)
}

func (h *Handler) Activity(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	feed, err := h.service.Activity(c.Request.Context(), identity.ClinicID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, feed)
}

func (h *Handler) Revenue(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	series, err := h.service.Revenue(c.Request.Context(), identity.ClinicID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, series)
}
