package owner

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/handler"
	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/service/owner"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Handler struct {
	service *owner.Service
}

func NewHandler(service *owner.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	var req model.CreateOwnerRequest
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

	found, err := h.service.Get(c.Request.Context(), identity, id)
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

	owners, err := h.service.List(c.Request.Context(), identity)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, owners)
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

	var req model.UpdateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), identity, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, updated)
}

// Profile is the owner self-service endpoint.
func (h *Handler) Profile(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), identity)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, profile)
}
