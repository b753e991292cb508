package owner

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Service struct {
	repo    repository.OwnerRepository
	animals repository.AnimalRepository
}

func NewService(repo repository.OwnerRepository, animals repository.AnimalRepository) *Service {
	return &Service{repo: repo, animals: animals}
}

func (s *Service) Create(ctx context.Context, identity access.Identity, req *model.CreateOwnerRequest) (*model.Owner, error) {
	if identity.ClinicID == nil {
		return nil, apperror.Forbidden("access denied")
	}

	owner := &model.Owner{
		ClinicID: *identity.ClinicID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := s.repo.Create(ctx, owner); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, apperror.Conflict("email already registered")
		}
		return nil, apperror.Internal(err)
	}
	return owner, nil
}

func (s *Service) Get(ctx context.Context, identity access.Identity, id uuid.UUID) (*model.Owner, error) {
	// An OWNER caller can only read their own profile.
	if identity.Role == model.RoleOwner {
		ownerID, err := identity.RequireOwnerID()
		if err != nil {
			return nil, err
		}
		if ownerID != id {
			return nil, apperror.Forbidden("access denied")
		}
	}

	owner, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if identity.Role == model.RoleOwner {
				return nil, apperror.Forbidden("access denied")
			}
			return nil, apperror.NotFound("owner")
		}
		return nil, apperror.Internal(err)
	}
	if identity.ClinicID != nil && identity.IsStaff() && owner.ClinicID != *identity.ClinicID {
		return nil, apperror.Forbidden("access denied")
	}
	return owner, nil
}

func (s *Service) List(ctx context.Context, identity access.Identity) ([]*model.Owner, error) {
	owners, err := s.repo.List(ctx, identity.ClinicID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return owners, nil
}

func (s *Service) Update(ctx context.Context, identity access.Identity, id uuid.UUID, req *model.UpdateOwnerRequest) (*model.Owner, error) {
	owner, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		owner.Name = *req.Name
	}
	if req.Email != nil {
		owner.Email = *req.Email
	}
	if req.Phone != nil {
		owner.Phone = *req.Phone
	}
	if req.Address != nil {
		owner.Address = *req.Address
	}

	if err := s.repo.Update(ctx, owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("owner")
		}
		return nil, apperror.Internal(err)
	}
	return owner, nil
}

// Profile is the owner self-service view: their record plus their animals.
func (s *Service) Profile(ctx context.Context, identity access.Identity) (*model.OwnerProfile, error) {
	ownerID, err := identity.RequireOwnerID()
	if err != nil {
		return nil, err
	}

	owner, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.Forbidden("access denied")
		}
		return nil, apperror.Internal(err)
	}

	animals, err := s.animals.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &model.OwnerProfile{Owner: owner, Animals: animals}, nil
}
