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

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{BaseRepository{db: db}}
}

const appointmentColumns = `id, clinic_id, animal_id, vet_id, date, reason, status,
	   notes, cancel_reason, created_at, updated_at`

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, clinic_id, animal_id, vet_id, date, reason, status,
			notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.ClinicID,
		apt.AnimalID,
		apt.VetID,
		apt.Date,
		apt.Reason,
		apt.Status,
		apt.Notes,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)

	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) List(ctx context.Context, scope access.Scope, filters model.AppointmentFilters) ([]*model.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM appointments ap
		WHERE 1=1
	`, prefixColumns("ap", appointmentColumns))
	args := []interface{}{}
	argCount := 1

	if scope.ClinicID != nil {
		query += fmt.Sprintf(" AND ap.clinic_id = $%d", argCount)
		args = append(args, *scope.ClinicID)
		argCount++
	}
	if scope.OwnerID != nil {
		// Owner scope resolves through the appointment's animal.
		query += fmt.Sprintf(" AND ap.animal_id IN (SELECT id FROM animals WHERE owner_id = $%d)", argCount)
		args = append(args, *scope.OwnerID)
		argCount++
	}
	if filters.AnimalID != nil {
		query += fmt.Sprintf(" AND ap.animal_id = $%d", argCount)
		args = append(args, *filters.AnimalID)
		argCount++
	}
	if filters.VetID != nil {
		query += fmt.Sprintf(" AND ap.vet_id = $%d", argCount)
		args = append(args, *filters.VetID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND ap.status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if filters.From != nil {
		query += fmt.Sprintf(" AND ap.date >= $%d", argCount)
		args = append(args, *filters.From)
		argCount++
	}
	if filters.To != nil {
		query += fmt.Sprintf(" AND ap.date < $%d", argCount)
		args = append(args, *filters.To)
		argCount++
	}

	query += " ORDER BY ap.date ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET vet_id = $1, date = $2, reason = $3, notes = $4, updated_at = $5
		WHERE id = $6
	`
	apt.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		apt.VetID,
		apt.Date,
		apt.Reason,
		apt.Notes,
		apt.UpdatedAt,
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return requireRowsAffected(result, "appointment")
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, cancelReason *string) error {
	query := `
		UPDATE appointments
		SET status = $1, cancel_reason = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, status, cancelReason, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	return requireRowsAffected(result, "appointment")
}

// CompleteWithConsultation closes the appointment and records the consultation
// in one transaction so a partial failure cannot leave one without the other.
func (r *appointmentRepository) CompleteWithConsultation(ctx context.Context, id uuid.UUID, consultation *model.Consultation) error {
	consultation.ID = uuid.New()
	consultation.CreatedAt = time.Now()
	consultation.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		update := `
			UPDATE appointments
			SET status = $1, updated_at = $2
			WHERE id = $3 AND status NOT IN ('completed', 'cancelled')
		`
		result, err := tx.ExecContext(ctx, update, model.AppointmentStatusCompleted, time.Now(), id)
		if err != nil {
			return fmt.Errorf("failed to complete appointment: %w", err)
		}
		if err := requireRowsAffected(result, "appointment"); err != nil {
			return err
		}

		insert := `
			INSERT INTO consultations (
				id, clinic_id, animal_id, appointment_id, vet_id, date,
				diagnosis, treatment, notes, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		_, err = tx.ExecContext(ctx, insert,
			consultation.ID,
			consultation.ClinicID,
			consultation.AnimalID,
			consultation.AppointmentID,
			consultation.VetID,
			consultation.Date,
			consultation.Diagnosis,
			consultation.Treatment,
			consultation.Notes,
			consultation.CreatedAt,
			consultation.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create consultation: %w", err)
		}
		return nil
	})
}
