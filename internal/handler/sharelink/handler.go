package sharelink

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/handler"
	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/service/sharelink"
	"github.com/vetcare/clinic-api/pkg/apperror"
	"github.com/vetcare/clinic-api/pkg/metrics"
)

type Handler struct {
	service *sharelink.Service
	metrics *metrics.Metrics
}

func NewHandler(service *sharelink.Service, m *metrics.Metrics) *Handler {
	return &Handler{service: service, metrics: m}
}

func (h *Handler) Create(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	var req model.CreateShareLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	link, err := h.service.Create(c.Request.Context(), identity, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, link)
}

func (h *Handler) List(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
		return
	}

	links, err := h.service.List(c.Request.Context(), identity)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, links)
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

// Resolve is the anonymous entry point; the code is the only credential.
func (h *Handler) Resolve(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		handler.Error(c, apperror.Validation("missing code"))
		return
	}

	view, err := h.service.Resolve(c.Request.Context(), code)
	if err != nil {
		if h.metrics != nil {
			h.metrics.ShareLinkDenied.Inc()
		}
		handler.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ShareLinkHits.Inc()
	}
	handler.OK(c, view)
}
