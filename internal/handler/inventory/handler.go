package inventory

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/handler"
	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/service/inventory"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Handler struct {
	service *inventory.Service
}

func NewHandler(service *inventory.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	var req model.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	item, err := h.service.Create(c.Request.Context(), identity, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, item)
}

func (h *Handler) Get(c *gin.Context) {
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

	item, err := h.service.Get(c.Request.Context(), identity, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, item)
}

func (h *Handler) List(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	items, err := h.service.List(c.Request.Context(), identity)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, items)
}

func (h *Handler) Alerts(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	alerts, err := h.service.Alerts(c.Request.Context(), identity)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, alerts)
}

func (h *Handler) Update(c *gin.Context) {
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

	var req model.UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	item, err := h.service.Update(c.Request.Context(), identity, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, item)
}

func (h *Handler) Adjust(c *gin.Context) {
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

	var req model.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	item, err := h.service.Adjust(c.Request.Context(), identity, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, item)
}
