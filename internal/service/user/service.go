package user

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
	"github.com/vetcare/clinic-api/pkg/security"
)

type Service struct {
	repo   repository.UserRepository
	hasher security.PasswordHasher
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// Create provisions a staff account. OWNER accounts are created through
// registration, never here.
func (s *Service) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if !req.Role.Valid() || req.Role == model.RoleOwner {
		return nil, apperror.Validation("invalid role")
	}
	clinicID, err := uuid.Parse(req.ClinicID)
	if err != nil {
		return nil, apperror.Validation("invalid clinic id")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &model.User{
		ClinicID:     &clinicID,
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, apperror.Conflict("email already registered")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, identity access.Identity) ([]*model.User, error) {
	users, err := s.repo.List(ctx, identity.ClinicID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		if !req.Role.Valid() || *req.Role == model.RoleOwner {
			return nil, apperror.Validation("invalid role")
		}
		user.Role = *req.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// Deactivate disables the login. A user cannot deactivate themselves; that
// would strand an admin-less clinic.
func (s *Service) Deactivate(ctx context.Context, identity access.Identity, id uuid.UUID) error {
	if identity.UserID == id {
		return apperror.Validation("cannot deactivate your own account")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("user")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, id uuid.UUID, req *model.ResetPasswordRequest) error {
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("user")
		}
		return apperror.Internal(err)
	}
	return nil
}
