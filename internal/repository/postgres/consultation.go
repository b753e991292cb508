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

type consultationRepository struct {
	BaseRepository
}

func NewConsultationRepository(db *sqlx.DB) repository.ConsultationRepository {
	return &consultationRepository{BaseRepository{db: db}}
}

const consultationColumns = `id, clinic_id, animal_id, appointment_id, vet_id, date,
	   diagnosis, treatment, notes, created_at, updated_at`

func (r *consultationRepository) Create(ctx context.Context, c *model.Consultation) error {
	query := `
		INSERT INTO consultations (
			id, clinic_id, animal_id, appointment_id, vet_id, date,
			diagnosis, treatment, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.ClinicID,
		c.AnimalID,
		c.AppointmentID,
		c.VetID,
		c.Date,
		c.Diagnosis,
		c.Treatment,
		c.Notes,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create consultation: %w", err)
	}
	return nil
}

func (r *consultationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Consultation, error) {
	query := fmt.Sprintf(`SELECT %s FROM consultations WHERE id = $1`, consultationColumns)

	var c model.Consultation
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}
	return &c, nil
}

func (r *consultationRepository) List(ctx context.Context, scope access.Scope, animalID *uuid.UUID) ([]*model.Consultation, error) {
	query := fmt.Sprintf(`SELECT %s FROM consultations co WHERE 1=1`, prefixColumns("co", consultationColumns))
	args := []interface{}{}
	argCount := 1

	if scope.ClinicID != nil {
		query += fmt.Sprintf(" AND co.clinic_id = $%d", argCount)
		args = append(args, *scope.ClinicID)
		argCount++
	}
	if scope.OwnerID != nil {
		query += fmt.Sprintf(" AND co.animal_id IN (SELECT id FROM animals WHERE owner_id = $%d)", argCount)
		args = append(args, *scope.OwnerID)
		argCount++
	}
	if animalID != nil {
		query += fmt.Sprintf(" AND co.animal_id = $%d", argCount)
		args = append(args, *animalID)
		argCount++
	}

	query += " ORDER BY co.date DESC"

	var consultations []*model.Consultation
	if err := r.db.SelectContext(ctx, &consultations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}

func (r *consultationRepository) Update(ctx context.Context, c *model.Consultation) error {
	query := `
		UPDATE consultations
		SET diagnosis = $1, treatment = $2, notes = $3, updated_at = $4
		WHERE id = $5
	`
	c.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query, c.Diagnosis, c.Treatment, c.Notes, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update consultation: %w", err)
	}
	return requireRowsAffected(result, "consultation")
}

func (r *consultationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM consultations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete consultation: %w", err)
	}
	return requireRowsAffected(result, "consultation")
}
