package appointment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/internal/service/notification"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

// allowedTransitions encodes the appointment lifecycle. Terminal statuses
// have no outgoing edges.
var allowedTransitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusScheduled: {
		model.AppointmentStatusConfirmed,
		model.AppointmentStatusCompleted,
		model.AppointmentStatusCancelled,
		model.AppointmentStatusNoShow,
	},
	model.AppointmentStatusConfirmed: {
		model.AppointmentStatusCompleted,
		model.AppointmentStatusCancelled,
		model.AppointmentStatusNoShow,
	},
}

func transitionAllowed(from, to model.AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Service struct {
	repo    repository.AppointmentRepository
	animals repository.AnimalRepository
	notifs  *notification.Service
}

func NewService(repo repository.AppointmentRepository, animals repository.AnimalRepository, notifs *notification.Service) *Service {
	return &Service{repo: repo, animals: animals, notifs: notifs}
}

func (s *Service) Create(ctx context.Context, identity access.Identity, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	animalID, err := uuid.Parse(req.AnimalID)
	if err != nil {
		return nil, apperror.Validation("invalid animal id")
	}

	animal, err := s.animals.Get(ctx, animalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Owners cannot learn whether a foreign id exists.
			if identity.Role == model.RoleOwner {
				return nil, apperror.Forbidden("access denied")
			}
			return nil, apperror.Validation("animal not found")
		}
		return nil, apperror.Internal(err)
	}
	if identity.Role == model.RoleOwner {
		ownerID, err := identity.RequireOwnerID()
		if err != nil {
			return nil, err
		}
		if animal.OwnerID != ownerID {
			return nil, apperror.Forbidden("access denied")
		}
	} else if identity.ClinicID != nil && animal.ClinicID != *identity.ClinicID {
		return nil, apperror.Forbidden("access denied")
	}

	apt := &model.Appointment{
		ClinicID: animal.ClinicID,
		AnimalID: animalID,
		Date:     req.Date,
		Reason:   req.Reason,
		Status:   model.AppointmentStatusScheduled,
		Notes:    req.Notes,
	}
	if req.VetID != "" {
		vetID, err := uuid.Parse(req.VetID)
		if err != nil {
			return nil, apperror.Validation("invalid vet id")
		}
		apt.VetID = &vetID
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, apperror.Internal(err)
	}
	return apt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("appointment")
		}
		return nil, apperror.Internal(err)
	}
	return apt, nil
}

func (s *Service) List(ctx context.Context, identity access.Identity, filters model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, identity.ListScope(), filters)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return appointments, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.Status == model.AppointmentStatusCompleted || apt.Status == model.AppointmentStatusCancelled {
		return nil, apperror.Conflict("appointment is closed")
	}

	if req.VetID != nil {
		vetID, err := uuid.Parse(*req.VetID)
		if err != nil {
			return nil, apperror.Validation("invalid vet id")
		}
		apt.VetID = &vetID
	}
	if req.Date != nil {
		apt.Date = *req.Date
	}
	if req.Reason != nil {
		apt.Reason = *req.Reason
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("appointment")
		}
		return nil, apperror.Internal(err)
	}
	return apt, nil
}

// UpdateStatus applies a lifecycle transition. Invalid target statuses are a
// validation error; disallowed transitions are a conflict.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentStatusRequest) (*model.Appointment, error) {
	if !req.Status.Valid() {
		return nil, apperror.Validation("invalid appointment status")
	}

	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(apt.Status, req.Status) {
		return nil, apperror.Conflict("invalid status transition")
	}

	var cancelReason *string
	if req.Status == model.AppointmentStatusCancelled {
		cancelReason = req.CancelReason
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status, cancelReason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("appointment")
		}
		return nil, apperror.Internal(err)
	}

	apt.Status = req.Status
	apt.CancelReason = cancelReason
	return apt, nil
}

// Complete closes the appointment and records the consultation atomically.
func (s *Service) Complete(ctx context.Context, identity access.Identity, id uuid.UUID, req *model.CompleteAppointmentRequest) (*model.Consultation, error) {
	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(apt.Status, model.AppointmentStatusCompleted) {
		return nil, apperror.Conflict("appointment cannot be completed")
	}

	consultation := &model.Consultation{
		ClinicID:      apt.ClinicID,
		AnimalID:      apt.AnimalID,
		AppointmentID: &apt.ID,
		VetID:         apt.VetID,
		Date:          time.Now(),
		Diagnosis:     req.Diagnosis,
		Treatment:     req.Treatment,
		Notes:         req.Notes,
	}
	if consultation.VetID == nil && identity.Role == model.RoleVeterinarian {
		vetID := identity.UserID
		consultation.VetID = &vetID
	}

	if err := s.repo.CompleteWithConsultation(ctx, id, consultation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.Conflict("appointment cannot be completed")
		}
		return nil, apperror.Internal(err)
	}

	if s.notifs != nil {
		s.notifs.AppointmentCompleted(ctx, apt)
	}
	log.Info().Str("appointment_id", id.String()).Msg("appointment completed")
	return consultation, nil
}
