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

type clinicRepository struct {
	BaseRepository
}

func NewClinicRepository(db *sqlx.DB) repository.ClinicRepository {
	return &clinicRepository{BaseRepository{db: db}}
}

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `
		SELECT id, name, address, phone, email, created_at, updated_at
		FROM clinics
		WHERE id = $1
	`
	var clinic model.Clinic
	if err := r.db.GetContext(ctx, &clinic, query, id); err != nil {
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return &clinic, nil
}

func (r *clinicRepository) Update(ctx context.Context, clinic *model.Clinic) error {
	query := `
		UPDATE clinics
		SET name = $1, address = $2, phone = $3, email = $4, updated_at = $5
		WHERE id = $6
	`
	clinic.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		clinic.Name, clinic.Address, clinic.Phone, clinic.Email, clinic.UpdatedAt, clinic.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update clinic: %w", err)
	}
	return requireRowsAffected(result, "clinic")
}

func (r *clinicRepository) Stats(ctx context.Context, clinicID uuid.UUID) (*model.ClinicStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM animals WHERE clinic_id = $1 AND is_active = true) AS animals,
			(SELECT COUNT(*) FROM owners WHERE clinic_id = $1) AS owners,
			(SELECT COUNT(*) FROM users WHERE clinic_id = $1 AND is_active = true) AS users,
			(SELECT COUNT(*) FROM appointments WHERE clinic_id = $1) AS appointments
	`
	var stats model.ClinicStats
	if err := r.db.GetContext(ctx, &stats, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to get clinic stats: %w", err)
	}
	return &stats, nil
}
