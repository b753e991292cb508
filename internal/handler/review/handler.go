package review

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/handler"
	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/service/review"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Handler struct {
	service *review.Service
}

func NewHandler(service *review.Service) *Handler {
	return &Handler{service: service}
}

// Submit is public; anyone can leave a review.
func (h *Handler) Submit(c *gin.Context) {
	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	created, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, created)
}

// ListPublic is the anonymous published-only listing.
func (h *Handler) ListPublic(c *gin.Context) {
	var clinicID *uuid.UUID
	if raw := c.Query("clinic_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handler.Error(c, apperror.Validation("invalid clinic_id filter"))
			return
		}
		clinicID = &id
	}

	reviews, err := h.service.ListPublic(c.Request.Context(), clinicID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, reviews)
}

// ListAll is the staff moderation view.
func (h *Handler) ListAll(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	reviews, err := h.service.ListAll(c.Request.Context(), identity.ClinicID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, reviews)
}

func (h *Handler) Respond(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperror.Validation("invalid id"))
		return
	}

	var req model.RespondReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	updated, err := h.service.Respond(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, updated)
}

func (h *Handler) Publish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperror.Validation("invalid id"))
		return
	}

	var req model.PublishReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	updated, err := h.service.SetPublished(c.Request.Context(), id, req.IsPublished)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, updated)
}
