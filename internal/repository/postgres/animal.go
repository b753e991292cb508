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

type animalRepository struct {
	BaseRepository
}

func NewAnimalRepository(db *sqlx.DB) repository.AnimalRepository {
	return &animalRepository{BaseRepository{db: db}}
}

const animalColumns = `id, clinic_id, owner_id, name, species, breed, sex,
	   birth_date, current_weight, microchip, is_active, created_at, updated_at`

func (r *animalRepository) Create(ctx context.Context, animal *model.Animal) error {
	query := `
		INSERT INTO animals (
			id, clinic_id, owner_id, name, species, breed, sex,
			birth_date, current_weight, microchip, is_active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	animal.ID = uuid.New()
	animal.CreatedAt = time.Now()
	animal.UpdatedAt = time.Now()
	animal.IsActive = true

	_, err := r.db.ExecContext(ctx, query,
		animal.ID,
		animal.ClinicID,
		animal.OwnerID,
		animal.Name,
		animal.Species,
		animal.Breed,
		animal.Sex,
		animal.BirthDate,
		animal.CurrentWeight,
		animal.Microchip,
		animal.IsActive,
		animal.CreatedAt,
		animal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create animal: %w", err)
	}
	return nil
}

func (r *animalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Animal, error) {
	query := fmt.Sprintf(`SELECT %s FROM animals WHERE id = $1`, animalColumns)

	var animal model.Animal
	if err := r.db.GetContext(ctx, &animal, query, id); err != nil {
		return nil, fmt.Errorf("failed to get animal: %w", err)
	}
	return &animal, nil
}

func (r *animalRepository) List(ctx context.Context, scope access.Scope) ([]*model.Animal, error) {
	query := fmt.Sprintf(`SELECT %s FROM animals WHERE 1=1`, animalColumns)
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

	query += " ORDER BY name ASC"

	var animals []*model.Animal
	if err := r.db.SelectContext(ctx, &animals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}
	return animals, nil
}

func (r *animalRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Animal, error) {
	query := fmt.Sprintf(`SELECT %s FROM animals WHERE owner_id = $1 ORDER BY name ASC`, animalColumns)

	var animals []*model.Animal
	if err := r.db.SelectContext(ctx, &animals, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list owner animals: %w", err)
	}
	return animals, nil
}

func (r *animalRepository) Update(ctx context.Context, animal *model.Animal) error {
	query := `
		UPDATE animals
		SET name = $1, species = $2, breed = $3, sex = $4, birth_date = $5,
			microchip = $6, is_active = $7, updated_at = $8
		WHERE id = $9
	`
	animal.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		animal.Name,
		animal.Species,
		animal.Breed,
		animal.Sex,
		animal.BirthDate,
		animal.Microchip,
		animal.IsActive,
		animal.UpdatedAt,
		animal.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update animal: %w", err)
	}
	return requireRowsAffected(result, "animal")
}

func (r *animalRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE animals SET is_active = false, updated_at = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate animal: %w", err)
	}
	return requireRowsAffected(result, "animal")
}

// AddWeightEntry inserts the measurement and refreshes the animal's current
// weight in the same transaction.
func (r *animalRepository) AddWeightEntry(ctx context.Context, entry *model.WeightEntry) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = entry.CreatedAt
	}

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO weight_entries (id, animal_id, weight, recorded_at, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.ExecContext(ctx, insert,
			entry.ID, entry.AnimalID, entry.Weight, entry.RecordedAt, entry.Notes, entry.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert weight entry: %w", err)
		}

		update := `UPDATE animals SET current_weight = $1, updated_at = $2 WHERE id = $3`
		result, err := tx.ExecContext(ctx, update, entry.Weight, time.Now(), entry.AnimalID)
		if err != nil {
			return fmt.Errorf("failed to update current weight: %w", err)
		}
		return requireRowsAffected(result, "animal")
	})
}

func (r *animalRepository) ListWeightEntries(ctx context.Context, animalID uuid.UUID) ([]*model.WeightEntry, error) {
	query := `
		SELECT id, animal_id, weight, recorded_at, notes, created_at
		FROM weight_entries
		WHERE animal_id = $1
		ORDER BY recorded_at DESC
	`
	var entries []*model.WeightEntry
	if err := r.db.SelectContext(ctx, &entries, query, animalID); err != nil {
		return nil, fmt.Errorf("failed to list weight entries: %w", err)
	}
	return entries, nil
}
