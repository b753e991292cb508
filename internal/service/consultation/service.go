package consultation

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

type Service struct {
	repo    repository.ConsultationRepository
	animals repository.AnimalRepository
}

func NewService(repo repository.ConsultationRepository, animals repository.AnimalRepository) *Service {
	return &Service{repo: repo, animals: animals}
}

func (s *Service) Create(ctx context.Context, identity access.Identity, req *model.CreateConsultationRequest) (*model.Consultation, error) {
	animalID, err := uuid.Parse(req.AnimalID)
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

	c := &model.Consultation{
		ClinicID:  animal.ClinicID,
		AnimalID:  animalID,
		Date:      time.Now(),
		Diagnosis: req.Diagnosis,
		Treatment: req.Treatment,
		Notes:     req.Notes,
	}
	if req.Date != nil {
		c.Date = *req.Date
	}
	if req.AppointmentID != "" {
		aptID, err := uuid.Parse(req.AppointmentID)
		if err != nil {
			return nil, apperror.Validation("invalid appointment id")
		}
		c.AppointmentID = &aptID
	}
	if req.VetID != "" {
		vetID, err := uuid.Parse(req.VetID)
		if err != nil {
			return nil, apperror.Validation("invalid vet id")
		}
		c.VetID = &vetID
	} else if identity.Role == model.RoleVeterinarian {
		vetID := identity.UserID
		c.VetID = &vetID
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Consultation, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("consultation")
		}
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, identity access.Identity, animalID *uuid.UUID) ([]*model.Consultation, error) {
	consultations, err := s.repo.List(ctx, identity.ListScope(), animalID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return consultations, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateConsultationRequest) (*model.Consultation, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Diagnosis != nil {
		c.Diagnosis = *req.Diagnosis
	}
	if req.Treatment != nil {
		c.Treatment = *req.Treatment
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("consultation")
		}
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("consultation")
		}
		return apperror.Internal(err)
	}
	return nil
}
