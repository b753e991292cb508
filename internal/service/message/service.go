package message

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/internal/service/notification"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Service struct {
	repo   repository.MessageRepository
	owners repository.OwnerRepository
	notifs *notification.Service
}

func NewService(repo repository.MessageRepository, owners repository.OwnerRepository, notifs *notification.Service) *Service {
	return &Service{repo: repo, owners: owners, notifs: notifs}
}

// Send posts a message into an owner's thread. OWNER callers always write to
// their own thread; staff address the thread by owner id and are recorded as
// the sender.
func (s *Service) Send(ctx context.Context, identity access.Identity, req *model.CreateMessageRequest) (*model.Message, error) {
	msg := &model.Message{Body: req.Body}

	if identity.Role == model.RoleOwner {
		ownerID, err := identity.RequireOwnerID()
		if err != nil {
			return nil, err
		}
		owner, err := s.owners.Get(ctx, ownerID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		msg.ClinicID = owner.ClinicID
		msg.OwnerID = ownerID
	} else {
		if req.OwnerID == "" {
			return nil, apperror.Validation("owner_id is required")
		}
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
		msg.ClinicID = owner.ClinicID
		msg.OwnerID = ownerID
		senderID := identity.UserID
		msg.SenderUserID = &senderID
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, apperror.Internal(err)
	}

	if s.notifs != nil {
		s.notifs.MessageReceived(ctx, msg)
	}
	return msg, nil
}

// Thread lists a conversation. OWNER callers see their own thread; staff pass
// the owner id.
func (s *Service) Thread(ctx context.Context, identity access.Identity, ownerID *uuid.UUID) ([]*model.Message, error) {
	if identity.Role == model.RoleOwner {
		id, err := identity.RequireOwnerID()
		if err != nil {
			return nil, err
		}
		ownerID = &id
	}

	messages, err := s.repo.List(ctx, identity.ListScope(), ownerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return messages, nil
}

// Conversations is the staff inbox, one row per owner thread.
func (s *Service) Conversations(ctx context.Context, identity access.Identity) ([]*model.Conversation, error) {
	conversations, err := s.repo.Conversations(ctx, identity.ClinicID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return conversations, nil
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("message")
		}
		return apperror.Internal(err)
	}
	return nil
}
