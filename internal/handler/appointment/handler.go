package appointment

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/handler"
	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/service/appointment"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	var req model.CreateAppointmentRequest
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

	apt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, apt)
}

func (h *Handler) List(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	filters, err := parseFilters(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	appointments, err := h.service.List(c.Request.Context(), identity, filters)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, appointments)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperror.Validation("invalid id"))
		return
	}

	var req model.UpdateAppointmentRequest
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

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperror.Validation("invalid id"))
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, updated)
}

func (h *Handler) Complete(c *gin.Context) {
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

	var req model.CompleteAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	consultation, err := h.service.Complete(c.Request.Context(), identity, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, consultation)
}

func parseFilters(c *gin.Context) (model.AppointmentFilters, error) {
	var filters model.AppointmentFilters

	if raw := c.Query("animal_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, apperror.Validation("invalid animal_id filter")
		}
		filters.AnimalID = &id
	}
	if raw := c.Query("vet_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, apperror.Validation("invalid vet_id filter")
		}
		filters.VetID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := model.AppointmentStatus(raw)
		if !status.Valid() {
			return filters, apperror.Validation("invalid status filter")
		}
		filters.Status = status
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, apperror.Validation("invalid from filter")
		}
		filters.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, apperror.Validation("invalid to filter")
		}
		filters.To = &t
	}
	return filters, nil
}
