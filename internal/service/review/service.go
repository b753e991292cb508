package review

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Service struct {
	repo repository.ReviewRepository
}

func NewService(repo repository.ReviewRepository) *Service {
	return &Service{repo: repo}
}

// Submit accepts an anonymous review. Reviews start unpublished and appear
// publicly only after staff approval.
func (s *Service) Submit(ctx context.Context, req *model.CreateReviewRequest) (*model.Review, error) {
	clinicID, err := uuid.Parse(req.ClinicID)
	if err != nil {
		return nil, apperror.Validation("invalid clinic id")
	}

	r := &model.Review{
		ClinicID:  clinicID,
		OwnerName: req.OwnerName,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, apperror.Internal(err)
	}
	return r, nil
}

// ListPublic returns published reviews only.
func (s *Service) ListPublic(ctx context.Context, clinicID *uuid.UUID) ([]*model.Review, error) {
	reviews, err := s.repo.List(ctx, clinicID, true)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reviews, nil
}

// ListAll is the staff moderation view including unpublished reviews.
func (s *Service) ListAll(ctx context.Context, clinicID *uuid.UUID) ([]*model.Review, error) {
	reviews, err := s.repo.List(ctx, clinicID, false)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reviews, nil
}

func (s *Service) Respond(ctx context.Context, id uuid.UUID, req *model.RespondReviewRequest) (*model.Review, error) {
	if err := s.repo.Respond(ctx, id, req.Response); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("review")
		}
		return nil, apperror.Internal(err)
	}
	return s.get(ctx, id)
}

func (s *Service) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*model.Review, error) {
	if err := s.repo.SetPublished(ctx, id, published); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("review")
		}
		return nil, apperror.Internal(err)
	}
	return s.get(ctx, id)
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("review")
		}
		return nil, apperror.Internal(err)
	}
	return r, nil
}
