package medical

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

// Service covers the medical record: vaccinations, certificates and
// prescriptions.
type Service struct {
	repo    repository.MedicalRepository
	animals repository.AnimalRepository
}

func NewService(repo repository.MedicalRepository, animals repository.AnimalRepository) *Service {
	return &Service{repo: repo, animals: animals}
}

// resolveAnimal validates the referenced animal and its clinic scope.
func (s *Service) resolveAnimal(ctx context.Context, identity access.Identity, rawID string) (*model.Animal, error) {
	animalID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperror.Validation("invalid animal id")
	}
	animal, err := s.animals.Get(ctx, animalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.Validation("animal not found")
		}
		return nil, apperror.Internal(err)
	}
	if identity.ClinicID != nil && animal.ClinicID != *identity.ClinicID {
		return nil, apperror.Forbidden("access denied")
	}
	return animal, nil
}

func parseOptionalUUID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.Validation("invalid " + field)
	}
	return &id, nil
}

func (s *Service) CreateVaccination(ctx context.Context, identity access.Identity, req *model.CreateVaccinationRequest) (*model.Vaccination, error) {
	animal, err := s.resolveAnimal(ctx, identity, req.AnimalID)
	if err != nil {
		return nil, err
	}
	vetID, err := parseOptionalUUID(req.VetID, "vet id")
	if err != nil {
		return nil, err
	}

	v := &model.Vaccination{
		ClinicID:       animal.ClinicID,
		AnimalID:       animal.ID,
		Name:           req.Name,
		AdministeredAt: time.Now(),
		NextDueAt:      req.NextDueAt,
		VetID:          vetID,
		Batch:          req.Batch,
	}
	if req.AdministeredAt != nil {
		v.AdministeredAt = *req.AdministeredAt
	}

	if err := s.repo.CreateVaccination(ctx, v); err != nil {
		return nil, apperror.Internal(err)
	}
	return v, nil
}

func (s *Service) GetVaccination(ctx context.Context, id uuid.UUID) (*model.Vaccination, error) {
	v, err := s.repo.GetVaccination(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("vaccination")
		}
		return nil, apperror.Internal(err)
	}
	return v, nil
}

func (s *Service) ListVaccinations(ctx context.Context, identity access.Identity, animalID *uuid.UUID) ([]*model.Vaccination, error) {
	vaccinations, err := s.repo.ListVaccinations(ctx, identity.ListScope(), animalID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return vaccinations, nil
}

// UpcomingVaccinations lists doses falling due in the next days.
func (s *Service) UpcomingVaccinations(ctx context.Context, identity access.Identity, days int) ([]*model.Vaccination, error) {
	if days <= 0 {
		days = 30
	}
	now := time.Now()
	vaccinations, err := s.repo.UpcomingVaccinations(ctx, identity.ListScope(), now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return vaccinations, nil
}

func (s *Service) DeleteVaccination(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteVaccination(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("vaccination")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (s *Service) CreateCertificate(ctx context.Context, identity access.Identity, req *model.CreateCertificateRequest) (*model.Certificate, error) {
	animal, err := s.resolveAnimal(ctx, identity, req.AnimalID)
	if err != nil {
		return nil, err
	}
	vetID, err := parseOptionalUUID(req.VetID, "vet id")
	if err != nil {
		return nil, err
	}

	c := &model.Certificate{
		ClinicID: animal.ClinicID,
		AnimalID: animal.ID,
		Kind:     req.Kind,
		IssuedAt: time.Now(),
		VetID:    vetID,
		Details:  req.Details,
	}
	if req.IssuedAt != nil {
		c.IssuedAt = *req.IssuedAt
	}

	if err := s.repo.CreateCertificate(ctx, c); err != nil {
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func (s *Service) GetCertificate(ctx context.Context, id uuid.UUID) (*model.Certificate, error) {
	c, err := s.repo.GetCertificate(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("certificate")
		}
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func (s *Service) ListCertificates(ctx context.Context, identity access.Identity, animalID *uuid.UUID) ([]*model.Certificate, error) {
	certificates, err := s.repo.ListCertificates(ctx, identity.ListScope(), animalID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return certificates, nil
}

func (s *Service) DeleteCertificate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCertificate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("certificate")
		}
		return apperror.Internal(err)
	}
	return nil
}

// CreatePrescription stores the prescription and its medication lines in one
// transaction.
func (s *Service) CreatePrescription(ctx context.Context, identity access.Identity, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	animal, err := s.resolveAnimal(ctx, identity, req.AnimalID)
	if err != nil {
		return nil, err
	}
	consultationID, err := parseOptionalUUID(req.ConsultationID, "consultation id")
	if err != nil {
		return nil, err
	}
	vetID, err := parseOptionalUUID(req.VetID, "vet id")
	if err != nil {
		return nil, err
	}
	if vetID == nil && identity.Role == model.RoleVeterinarian {
		id := identity.UserID
		vetID = &id
	}

	p := &model.Prescription{
		ClinicID:       animal.ClinicID,
		AnimalID:       animal.ID,
		ConsultationID: consultationID,
		VetID:          vetID,
		IssuedAt:       time.Now(),
		Notes:          req.Notes,
		Status:         model.PrescriptionStatusActive,
	}
	for _, m := range req.Medications {
		p.Medications = append(p.Medications, &model.PrescriptionMedication{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		})
	}

	if err := s.repo.CreatePrescription(ctx, p); err != nil {
		return nil, apperror.Internal(err)
	}
	return p, nil
}

func (s *Service) GetPrescription(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	p, err := s.repo.GetPrescription(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("prescription")
		}
		return nil, apperror.Internal(err)
	}
	return p, nil
}

func (s *Service) ListPrescriptions(ctx context.Context, identity access.Identity, animalID *uuid.UUID) ([]*model.Prescription, error) {
	prescriptions, err := s.repo.ListPrescriptions(ctx, identity.ListScope(), animalID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return prescriptions, nil
}

// AddMedication appends a line to an existing active prescription.
func (s *Service) AddMedication(ctx context.Context, prescriptionID uuid.UUID, req *model.CreateMedicationRequest) (*model.PrescriptionMedication, error) {
	p, err := s.GetPrescription(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}
	if p.Status != model.PrescriptionStatusActive {
		return nil, apperror.Conflict("prescription is not active")
	}

	m := &model.PrescriptionMedication{
		PrescriptionID: prescriptionID,
		Name:           req.Name,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		Duration:       req.Duration,
	}
	if err := s.repo.AddMedication(ctx, m); err != nil {
		return nil, apperror.Internal(err)
	}
	return m, nil
}

func (s *Service) ListMedications(ctx context.Context, prescriptionID uuid.UUID) ([]*model.PrescriptionMedication, error) {
	if _, err := s.GetPrescription(ctx, prescriptionID); err != nil {
		return nil, err
	}
	medications, err := s.repo.ListMedications(ctx, prescriptionID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return medications, nil
}

func (s *Service) UpdatePrescription(ctx context.Context, id uuid.UUID, req *model.UpdatePrescriptionRequest) (*model.Prescription, error) {
	p, err := s.GetPrescription(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	if req.Status != nil {
		switch *req.Status {
		case model.PrescriptionStatusActive, model.PrescriptionStatusCompleted, model.PrescriptionStatusCancelled:
		default:
			return nil, apperror.Validation("invalid prescription status")
		}
		p.Status = *req.Status
	}

	if err := s.repo.UpdatePrescription(ctx, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("prescription")
		}
		return nil, apperror.Internal(err)
	}
	return p, nil
}
