package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/pkg/apperror"
	"github.com/vetcare/clinic-api/pkg/messaging"
)

// Event channels published on the broker.
const (
	ChannelAppointments = "events.appointments"
	ChannelMessages     = "events.messages"
)

type Service struct {
	repo   repository.NotificationRepository
	broker messaging.Broker
}

func NewService(repo repository.NotificationRepository, broker messaging.Broker) *Service {
	return &Service{repo: repo, broker: broker}
}

// Notify stores an in-app notification for the user. Broker publish failures
// are logged and swallowed; notification delivery never fails the caller's
// operation.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, kind, title, body string) {
	n := &model.Notification{
		UserID: userID,
		Kind:   kind,
		Title:  title,
		Body:   body,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to store notification")
	}
}

// AppointmentCompleted notifies the assigned vet and publishes the event.
func (s *Service) AppointmentCompleted(ctx context.Context, apt *model.Appointment) {
	if apt.VetID != nil {
		s.Notify(ctx, *apt.VetID, "appointment",
			"Appointment completed",
			fmt.Sprintf("Appointment %s was completed", apt.ID))
	}
	if err := s.broker.Publish(ctx, ChannelAppointments, apt); err != nil {
		log.Warn().Err(err).Msg("failed to publish appointment event")
	}
}

// MessageReceived fans the event out to subscribers.
func (s *Service) MessageReceived(ctx context.Context, msg *model.Message) {
	if err := s.broker.Publish(ctx, ChannelMessages, msg); err != nil {
		log.Warn().Err(err).Msg("failed to publish message event")
	}
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return notifications, nil
}

// MarkRead is scoped to the caller; marking another user's notification
// reads as not found.
func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("notification")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *Service) ClearRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.ClearRead(ctx, userID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
