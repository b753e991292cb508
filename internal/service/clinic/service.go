package clinic

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Service struct {
	repo repository.ClinicRepository
}

func NewService(repo repository.ClinicRepository) *Service {
	return &Service{repo: repo}
}

// Me returns the caller's clinic.
func (s *Service) Me(ctx context.Context, identity access.Identity) (*model.Clinic, error) {
	if identity.ClinicID == nil {
		return nil, apperror.Forbidden("access denied")
	}

	clinic, err := s.repo.Get(ctx, *identity.ClinicID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("clinic")
		}
		return nil, apperror.Internal(err)
	}
	return clinic, nil
}

func (s *Service) Update(ctx context.Context, identity access.Identity, req *model.UpdateClinicRequest) (*model.Clinic, error) {
	clinic, err := s.Me(ctx, identity)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.Address != nil {
		clinic.Address = *req.Address
	}
	if req.Phone != nil {
		clinic.Phone = *req.Phone
	}
	if req.Email != nil {
		clinic.Email = *req.Email
	}

	if err := s.repo.Update(ctx, clinic); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("clinic")
		}
		return nil, apperror.Internal(err)
	}
	return clinic, nil
}

func (s *Service) Stats(ctx context.Context, identity access.Identity) (*model.ClinicStats, error) {
	if identity.ClinicID == nil {
		return nil, apperror.Forbidden("access denied")
	}

	stats, err := s.repo.Stats(ctx, *identity.ClinicID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return stats, nil
}
