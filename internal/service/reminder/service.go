package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/email"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Service struct {
	repo    repository.ReminderRepository
	animals repository.AnimalRepository
	owners  repository.OwnerRepository
	mailer  email.Sender
}

func NewService(repo repository.ReminderRepository, animals repository.AnimalRepository, owners repository.OwnerRepository, mailer email.Sender) *Service {
	return &Service{repo: repo, animals: animals, owners: owners, mailer: mailer}
}

func (s *Service) Create(ctx context.Context, identity access.Identity, req *model.CreateReminderRequest) (*model.Reminder, error) {
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

	channel := req.Channel
	if channel == "" {
		channel = "email"
	}

	r := &model.Reminder{
		ClinicID: animal.ClinicID,
		AnimalID: animalID,
		Kind:     req.Kind,
		DueAt:    req.DueAt,
		Channel:  channel,
		Status:   model.ReminderStatusPending,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, apperror.Internal(err)
	}
	return r, nil
}

func (s *Service) List(ctx context.Context, identity access.Identity, status model.ReminderStatus) ([]*model.Reminder, error) {
	reminders, err := s.repo.List(ctx, identity.ClinicID, status)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reminders, nil
}

// Mine lists the reminders for the calling owner's animals.
func (s *Service) Mine(ctx context.Context, identity access.Identity) ([]*model.Reminder, error) {
	ownerID, err := identity.RequireOwnerID()
	if err != nil {
		return nil, err
	}
	reminders, err := s.repo.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reminders, nil
}

// Send delivers a pending reminder to the animal's owner and marks it sent.
// Re-sending a sent or cancelled reminder is a conflict.
func (s *Service) Send(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("reminder")
		}
		return nil, apperror.Internal(err)
	}
	if r.Status != model.ReminderStatusPending {
		return nil, apperror.Conflict("reminder already processed")
	}

	animal, err := s.animals.Get(ctx, r.AnimalID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	owner, err := s.owners.Get(ctx, animal.OwnerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if r.Channel == "email" {
		subject := fmt.Sprintf("Reminder: %s for %s", r.Kind, animal.Name)
		body := fmt.Sprintf("Hello %s,\n\n%s is due for %s on %s.",
			owner.Name, animal.Name, r.Kind, r.DueAt.Format("2 January 2006"))
		if err := s.mailer.Send(owner.Email, subject, body); err != nil {
			log.Error().Err(err).Str("reminder_id", id.String()).Msg("failed to send reminder email")
			return nil, apperror.Internal(err)
		}
	}

	sentAt := time.Now()
	if err := s.repo.MarkSent(ctx, id, sentAt); err != nil {
		return nil, apperror.Internal(err)
	}
	r.Status = model.ReminderStatusSent
	r.SentAt = &sentAt
	return r, nil
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Cancel(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("reminder")
		}
		return apperror.Internal(err)
	}
	return nil
}
