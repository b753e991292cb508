package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
)

type messageRepository struct {
	BaseRepository
}

func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &messageRepository{BaseRepository{db: db}}
}

const messageColumns = `id, clinic_id, owner_id, sender_user_id, body, is_read, created_at`

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	query := `
		INSERT INTO messages (id, clinic_id, owner_id, sender_user_id, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.ClinicID, msg.OwnerID, msg.SenderUserID, msg.Body, msg.IsRead, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *messageRepository) Get(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM messages WHERE id = $1`, messageColumns)

	var msg model.Message
	if err := r.db.GetContext(ctx, &msg, query, id); err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &msg, nil
}

func (r *messageRepository) List(ctx context.Context, scope access.Scope, ownerID *uuid.UUID) ([]*model.Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM messages WHERE 1=1`, messageColumns)
	args := []interface{}{}
	argCount := 1

	if scope.ClinicID != nil {
		query += fmt.Sprintf(" AND clinic_id = $%d", argCount)
		args = append(args, *scope.ClinicID)
		argCount++
	}
	if scope.OwnerID != nil {
		query += fmt.Sprintf(" AND owner_id = $%d", argCount)
		args = append(args, *scope.OwnerID)
		argCount++
	}
	if ownerID != nil {
		query += fmt.Sprintf(" AND owner_id = $%d", argCount)
		args = append(args, *ownerID)
		argCount++
	}

	query += " ORDER BY created_at ASC"

	var messages []*model.Message
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// Conversations builds the staff inbox: one row per owner with the latest
// message and the count of unread owner-authored messages.
func (r *messageRepository) Conversations(ctx context.Context, clinicID *uuid.UUID) ([]*model.Conversation, error) {
	query := `
		SELECT m.owner_id,
			   o.name AS owner_name,
			   last.body AS last_message,
			   last.created_at AS last_at,
			   COUNT(*) FILTER (WHERE m.sender_user_id IS NULL AND m.is_read = false) AS unread_count
		FROM messages m
		JOIN owners o ON o.id = m.owner_id
		JOIN LATERAL (
			SELECT body, created_at
			FROM messages
			WHERE owner_id = m.owner_id
			ORDER BY created_at DESC
			LIMIT 1
		) last ON true
		WHERE 1=1
	`
	args := []interface{}{}
	if clinicID != nil {
		query += " AND m.clinic_id = $1"
		args = append(args, *clinicID)
	}
	query += `
		GROUP BY m.owner_id, o.name, last.body, last.created_at
		ORDER BY last.created_at DESC
	`

	var conversations []*model.Conversation
	if err := r.db.SelectContext(ctx, &conversations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// MarkRead is idempotent: re-reading a read message matches the row and
// changes nothing.
func (r *messageRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return requireRowsAffected(result, "message")
}
