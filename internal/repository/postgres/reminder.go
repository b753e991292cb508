package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
)

type reminderRepository struct {
	BaseRepository
}

func NewReminderRepository(db *sqlx.DB) repository.ReminderRepository {
	return &reminderRepository{BaseRepository{db: db}}
}

const reminderColumns = `id, clinic_id, animal_id, kind, due_at, channel, status, sent_at,
	   created_at, updated_at`

func (r *reminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	query := `
		INSERT INTO reminders (
			id, clinic_id, animal_id, kind, due_at, channel, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	reminder.ID = uuid.New()
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		reminder.ID, reminder.ClinicID, reminder.AnimalID, reminder.Kind,
		reminder.DueAt, reminder.Channel, reminder.Status,
		reminder.CreatedAt, reminder.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (r *reminderRepository) Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	query := fmt.Sprintf(`SELECT %s FROM reminders WHERE id = $1`, reminderColumns)

	var reminder model.Reminder
	if err := r.db.GetContext(ctx, &reminder, query, id); err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &reminder, nil
}

func (r *reminderRepository) List(ctx context.Context, clinicID *uuid.UUID, status model.ReminderStatus) ([]*model.Reminder, error) {
	query := fmt.Sprintf(`SELECT %s FROM reminders WHERE 1=1`, reminderColumns)
	args := []interface{}{}
	argCount := 1

	if clinicID != nil {
		query += fmt.Sprintf(" AND clinic_id = $%d", argCount)
		args = append(args, *clinicID)
		argCount++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, status)
		argCount++
	}

	query += " ORDER BY due_at ASC"

	var reminders []*model.Reminder
	if err := r.db.SelectContext(ctx, &reminders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

func (r *reminderRepository) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Reminder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM reminders
		WHERE animal_id IN (SELECT id FROM animals WHERE owner_id = $1)
		AND status = 'pending'
		ORDER BY due_at ASC
	`, reminderColumns)

	var reminders []*model.Reminder
	if err := r.db.SelectContext(ctx, &reminders, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list owner reminders: %w", err)
	}
	return reminders, nil
}

func (r *reminderRepository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	query := `
		UPDATE reminders
		SET status = $1, sent_at = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		model.ReminderStatusSent, sentAt, time.Now(), id, model.ReminderStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return requireRowsAffected(result, "pending reminder")
}

func (r *reminderRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE reminders SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, model.ReminderStatusCancelled, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to cancel reminder: %w", err)
	}
	return requireRowsAffected(result, "reminder")
}
