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

type ownerRepository struct {
	BaseRepository
}

func NewOwnerRepository(db *sqlx.DB) repository.OwnerRepository {
	return &ownerRepository{BaseRepository{db: db}}
}

const ownerColumns = `id, clinic_id, name, email, phone, address, created_at, updated_at`

func (r *ownerRepository) Create(ctx context.Context, owner *model.Owner) error {
	query := `
		INSERT INTO owners (id, clinic_id, name, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	owner.ID = uuid.New()
	owner.CreatedAt = time.Now()
	owner.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		owner.ID, owner.ClinicID, owner.Name, owner.Email, owner.Phone,
		owner.Address, owner.CreatedAt, owner.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create owner: %w", err)
	}
	return nil
}

func (r *ownerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Owner, error) {
	query := fmt.Sprintf(`SELECT %s FROM owners WHERE id = $1`, ownerColumns)

	var owner model.Owner
	if err := r.db.GetContext(ctx, &owner, query, id); err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	return &owner, nil
}

func (r *ownerRepository) GetByEmail(ctx context.Context, email string) (*model.Owner, error) {
	query := fmt.Sprintf(`SELECT %s FROM owners WHERE email = $1`, ownerColumns)

	var owner model.Owner
	if err := r.db.GetContext(ctx, &owner, query, email); err != nil {
		return nil, fmt.Errorf("failed to get owner by email: %w", err)
	}
	return &owner, nil
}

func (r *ownerRepository) List(ctx context.Context, clinicID *uuid.UUID) ([]*model.Owner, error) {
	query := fmt.Sprintf(`SELECT %s FROM owners WHERE 1=1`, ownerColumns)
	args := []interface{}{}

	if clinicID != nil {
		query += " AND clinic_id = $1"
		args = append(args, *clinicID)
	}
	query += " ORDER BY name ASC"

	var owners []*model.Owner
	if err := r.db.SelectContext(ctx, &owners, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	return owners, nil
}

func (r *ownerRepository) Update(ctx context.Context, owner *model.Owner) error {
	query := `
		UPDATE owners
		SET name = $1, email = $2, phone = $3, address = $4, updated_at = $5
		WHERE id = $6
	`
	owner.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		owner.Name, owner.Email, owner.Phone, owner.Address, owner.UpdatedAt, owner.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update owner: %w", err)
	}
	return requireRowsAffected(result, "owner")
}
