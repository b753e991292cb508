package medical

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/handler"
	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/service/medical"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

// Handler serves vaccinations, certificates and prescriptions.
type Handler struct {
	service *medical.Service
}

func NewHandler(service *medical.Service) *Handler {
	return &Handler{service: service}
}

func requireIdentity(c *gin.Context) (access.Identity, bool) {
	identity, ok := middleware.Identity(c)
	if !ok {
		handler.Error(c, apperror.Unauthenticated("authentication required"))
	}
	return identity, ok
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperror.Validation("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

func animalFilter(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("animal_id")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		handler.Error(c, apperror.Validation("invalid animal_id filter"))
		return nil, false
	}
	return &id, true
}

func (h *Handler) CreateVaccination(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req model.CreateVaccinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	v, err := h.service.CreateVaccination(c.Request.Context(), identity, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, v)
}

func (h *Handler) GetVaccination(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	v, err := h.service.GetVaccination(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, v)
}

func (h *Handler) ListVaccinations(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	animalID, ok := animalFilter(c)
	if !ok {
		return
	}

	vaccinations, err := h.service.ListVaccinations(c.Request.Context(), identity, animalID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, vaccinations)
}

func (h *Handler) UpcomingVaccinations(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			handler.Error(c, apperror.Validation("invalid days filter"))
			return
		}
		days = n
	}

	vaccinations, err := h.service.UpcomingVaccinations(c.Request.Context(), identity, days)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, vaccinations)
}

func (h *Handler) DeleteVaccination(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteVaccination(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	handler.NoContent(c)
}

func (h *Handler) CreateCertificate(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req model.CreateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	cert, err := h.service.CreateCertificate(c.Request.Context(), identity, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, cert)
}

func (h *Handler) GetCertificate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cert, err := h.service.GetCertificate(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, cert)
}

func (h *Handler) ListCertificates(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	animalID, ok := animalFilter(c)
	if !ok {
		return
	}

	certificates, err := h.service.ListCertificates(c.Request.Context(), identity, animalID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, certificates)
}

func (h *Handler) DeleteCertificate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCertificate(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	handler.NoContent(c)
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	p, err := h.service.CreatePrescription(c.Request.Context(), identity, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, p)
}

func (h *Handler) GetPrescription(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.service.GetPrescription(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, p)
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	animalID, ok := animalFilter(c)
	if !ok {
		return
	}

	prescriptions, err := h.service.ListPrescriptions(c.Request.Context(), identity, animalID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, prescriptions)
}

func (h *Handler) AddMedication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.CreateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	m, err := h.service.AddMedication(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, m)
}

func (h *Handler) ListMedications(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	medications, err := h.service.ListMedications(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, medications)
}

// AnimalVaccinations lists one animal's vaccination history.
func (h *Handler) AnimalVaccinations(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	vaccinations, err := h.service.ListVaccinations(c.Request.Context(), identity, &id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, vaccinations)
}

func (h *Handler) UpdatePrescription(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.UpdatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	p, err := h.service.UpdatePrescription(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, p)
}
