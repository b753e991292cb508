package animal

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/handler"
	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/service/animal"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Handler struct {
	service *animal.Service
}

func NewHandler(service *animal.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	var req model.CreateAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), identity, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, created)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperror.Validation("invalid id"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, found)
}

func (h *Handler) List(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	animals, err := h.service.List(c.Request.Context(), identity)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, animals)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperror.Validation("invalid id"))
		return
	}

	var req model.UpdateAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, updated)
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperror.Validation("invalid id"))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	handler.NoContent(c)
}

func (h *Handler) AddWeight(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperror.Validation("invalid id"))
		return
	}

	var req model.CreateWeightEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	entry, err := h.service.AddWeight(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, entry)
}

func (h *Handler) WeightHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperror.Validation("invalid id"))
		return
	}

	entries, err := h.service.WeightHistory(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, entries)
}
