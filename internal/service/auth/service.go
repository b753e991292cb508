package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/pkg/apperror"
	"github.com/vetcare/clinic-api/pkg/auth"
	"github.com/vetcare/clinic-api/pkg/security"
)

type Service struct {
	users  repository.UserRepository
	owners repository.OwnerRepository
	hasher security.PasswordHasher
	tokens *auth.TokenService
}

func NewService(users repository.UserRepository, owners repository.OwnerRepository, hasher security.PasswordHasher, tokens *auth.TokenService) *Service {
	return &Service{users: users, owners: owners, hasher: hasher, tokens: tokens}
}

// Login verifies the credential and issues a token. Unknown email and wrong
// password return the same error so the endpoint cannot be used to probe for
// accounts.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.InvalidCredential("invalid email or password", nil)
		}
		return nil, apperror.Internal(err)
	}

	if !user.IsActive {
		return nil, apperror.InvalidCredential("invalid email or password", nil)
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperror.InvalidCredential("invalid email or password", nil)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("user logged in")
	return &model.AuthResponse{Token: token, User: user}, nil
}

// Register creates an owner profile and its OWNER-role login account. Staff
// accounts are provisioned through user management, never here.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	clinicID, err := uuid.Parse(req.ClinicID)
	if err != nil {
		return nil, apperror.Validation("invalid clinic id")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	owner := &model.Owner{
		ClinicID: clinicID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := s.owners.Create(ctx, owner); err != nil {
		return nil, apperror.Internal(err)
	}

	user := &model.User{
		ClinicID:     &clinicID,
		OwnerID:      &owner.ID,
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         model.RoleOwner,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("email already registered")
		}
		return nil, apperror.Internal(err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	log.Info().Str("user_id", user.ID.String()).Msg("owner registered")
	return &model.AuthResponse{Token: token, User: user}, nil
}

// Me returns the authenticated user's record.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (s *Service) issueToken(user *model.User) (string, error) {
	var clinicID, ownerID string
	if user.ClinicID != nil {
		clinicID = user.ClinicID.String()
	}
	if user.OwnerID != nil {
		ownerID = user.OwnerID.String()
	}
	return s.tokens.Generate(user.ID.String(), string(user.Role), clinicID, ownerID)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
