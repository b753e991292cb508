package animal

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
	repo   repository.AnimalRepository
	owners repository.OwnerRepository
}

func NewService(repo repository.AnimalRepository, owners repository.OwnerRepository) *Service {
	return &Service{repo: repo, owners: owners}
}

func (s *Service) Create(ctx context.Context, identity access.Identity, req *model.CreateAnimalRequest) (*model.Animal, error) {
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return nil, apperror.Validation("invalid owner id")
	}

	owner, err := s.owners.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.Validation("owner not found")
		}
		return nil, apperror.Internal(err)
	}
	if identity.ClinicID != nil && owner.ClinicID != *identity.ClinicID {
		return nil, apperror.Forbidden("access denied")
	}

	animal := &model.Animal{
		ClinicID:  owner.ClinicID,
		OwnerID:   ownerID,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		Sex:       req.Sex,
		BirthDate: req.BirthDate,
		Microchip: req.Microchip,
	}
	if err := s.repo.Create(ctx, animal); err != nil {
		return nil, apperror.Internal(err)
	}
	return animal, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Animal, error) {
	animal, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("animal")
		}
		return nil, apperror.Internal(err)
	}
	return animal, nil
}

func (s *Service) List(ctx context.Context, identity access.Identity) ([]*model.Animal, error) {
	animals, err := s.repo.List(ctx, identity.ListScope())
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return animals, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAnimalRequest) (*model.Animal, error) {
	animal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		animal.Name = *req.Name
	}
	if req.Species != nil {
		animal.Species = *req.Species
	}
	if req.Breed != nil {
		animal.Breed = *req.Breed
	}
	if req.Sex != nil {
		animal.Sex = *req.Sex
	}
	if req.BirthDate != nil {
		animal.BirthDate = req.BirthDate
	}
	if req.Microchip != nil {
		animal.Microchip = req.Microchip
	}
	if req.IsActive != nil {
		animal.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, animal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("animal")
		}
		return nil, apperror.Internal(err)
	}
	return animal, nil
}

// Deactivate soft-deletes the animal; history stays queryable.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("animal")
		}
		return apperror.Internal(err)
	}
	return nil
}

// AddWeight records a measurement and rolls the animal's current weight
// forward in the same transaction.
func (s *Service) AddWeight(ctx context.Context, animalID uuid.UUID, req *model.CreateWeightEntryRequest) (*model.WeightEntry, error) {
	recordedAt := time.Now()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	entry := &model.WeightEntry{
		AnimalID:   animalID,
		Weight:     req.Weight,
		RecordedAt: recordedAt,
		Notes:      req.Notes,
	}
	if err := s.repo.AddWeightEntry(ctx, entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("animal")
		}
		return nil, apperror.Internal(err)
	}
	return entry, nil
}

func (s *Service) WeightHistory(ctx context.Context, animalID uuid.UUID) ([]*model.WeightEntry, error) {
	entries, err := s.repo.ListWeightEntries(ctx, animalID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return entries, nil
}
