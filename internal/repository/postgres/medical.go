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

// medicalRepository groups the vaccination, certificate and prescription
// tables; they share the animal ownership chain and the same scoping rules.
type medicalRepository struct {
	BaseRepository
}

func NewMedicalRepository(db *sqlx.DB) repository.MedicalRepository {
	return &medicalRepository{BaseRepository{db: db}}
}

// scopePredicate appends clinic/owner restrictions for an animal-scoped table.
func scopePredicate(query string, scope access.Scope, args []interface{}, argCount int) (string, []interface{}, int) {
	if scope.ClinicID != nil {
		query += fmt.Sprintf(" AND clinic_id = $%d", argCount)
		args = append(args, *scope.ClinicID)
		argCount++
	}
	if scope.OwnerID != nil {
		query += fmt.Sprintf(" AND animal_id IN (SELECT id FROM animals WHERE owner_id = $%d)", argCount)
		args = append(args, *scope.OwnerID)
		argCount++
	}
	return query, args, argCount
}

const vaccinationColumns = `id, clinic_id, animal_id, name, administered_at, next_due_at,
	   vet_id, batch, created_at, updated_at`

func (r *medicalRepository) CreateVaccination(ctx context.Context, v *model.Vaccination) error {
	query := `
		INSERT INTO vaccinations (
			id, clinic_id, animal_id, name, administered_at, next_due_at,
			vet_id, batch, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	v.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.ClinicID, v.AnimalID, v.Name, v.AdministeredAt, v.NextDueAt,
		v.VetID, v.Batch, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vaccination: %w", err)
	}
	return nil
}

func (r *medicalRepository) GetVaccination(ctx context.Context, id uuid.UUID) (*model.Vaccination, error) {
	query := fmt.Sprintf(`SELECT %s FROM vaccinations WHERE id = $1`, vaccinationColumns)

	var v model.Vaccination
	if err := r.db.GetContext(ctx, &v, query, id); err != nil {
		return nil, fmt.Errorf("failed to get vaccination: %w", err)
	}
	return &v, nil
}

func (r *medicalRepository) ListVaccinations(ctx context.Context, scope access.Scope, animalID *uuid.UUID) ([]*model.Vaccination, error) {
	query := fmt.Sprintf(`SELECT %s FROM vaccinations WHERE 1=1`, vaccinationColumns)
	args := []interface{}{}
	argCount := 1

	query, args, argCount = scopePredicate(query, scope, args, argCount)
	if animalID != nil {
		query += fmt.Sprintf(" AND animal_id = $%d", argCount)
		args = append(args, *animalID)
		argCount++
	}
	query += " ORDER BY administered_at DESC"

	var vaccinations []*model.Vaccination
	if err := r.db.SelectContext(ctx, &vaccinations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list vaccinations: %w", err)
	}
	return vaccinations, nil
}

func (r *medicalRepository) UpcomingVaccinations(ctx context.Context, scope access.Scope, from, to time.Time) ([]*model.Vaccination, error) {
	query := fmt.Sprintf(`SELECT %s FROM vaccinations WHERE next_due_at >= $1 AND next_due_at < $2`, vaccinationColumns)
	args := []interface{}{from, to}
	argCount := 3

	query, args, _ = scopePredicate(query, scope, args, argCount)
	query += " ORDER BY next_due_at ASC"

	var vaccinations []*model.Vaccination
	if err := r.db.SelectContext(ctx, &vaccinations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list upcoming vaccinations: %w", err)
	}
	return vaccinations, nil
}

func (r *medicalRepository) DeleteVaccination(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vaccinations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vaccination: %w", err)
	}
	return requireRowsAffected(result, "vaccination")
}

const certificateColumns = `id, clinic_id, animal_id, kind, issued_at, vet_id, details,
	   created_at, updated_at`

func (r *medicalRepository) CreateCertificate(ctx context.Context, c *model.Certificate) error {
	query := `
		INSERT INTO certificates (
			id, clinic_id, animal_id, kind, issued_at, vet_id, details,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.ClinicID, c.AnimalID, c.Kind, c.IssuedAt, c.VetID, c.Details,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create certificate: %w", err)
	}
	return nil
}

func (r *medicalRepository) GetCertificate(ctx context.Context, id uuid.UUID) (*model.Certificate, error) {
	query := fmt.Sprintf(`SELECT %s FROM certificates WHERE id = $1`, certificateColumns)

	var c model.Certificate
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}
	return &c, nil
}

func (r *medicalRepository) ListCertificates(ctx context.Context, scope access.Scope, animalID *uuid.UUID) ([]*model.Certificate, error) {
	query := fmt.Sprintf(`SELECT %s FROM certificates WHERE 1=1`, certificateColumns)
	args := []interface{}{}
	argCount := 1

	query, args, argCount = scopePredicate(query, scope, args, argCount)
	if animalID != nil {
		query += fmt.Sprintf(" AND animal_id = $%d", argCount)
		args = append(args, *animalID)
		argCount++
	}
	query += " ORDER BY issued_at DESC"

	var certificates []*model.Certificate
	if err := r.db.SelectContext(ctx, &certificates, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	return certificates, nil
}

func (r *medicalRepository) DeleteCertificate(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM certificates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete certificate: %w", err)
	}
	return requireRowsAffected(result, "certificate")
}

const prescriptionColumns = `id, clinic_id, animal_id, consultation_id, vet_id, issued_at,
	   notes, status, created_at, updated_at`

// CreatePrescription inserts the prescription and its medications in one
// transaction.
func (r *medicalRepository) CreatePrescription(ctx context.Context, p *model.Prescription) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO prescriptions (
				id, clinic_id, animal_id, consultation_id, vet_id, issued_at,
				notes, status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		if _, err := tx.ExecContext(ctx, insert,
			p.ID, p.ClinicID, p.AnimalID, p.ConsultationID, p.VetID, p.IssuedAt,
			p.Notes, p.Status, p.CreatedAt, p.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create prescription: %w", err)
		}

		for _, m := range p.Medications {
			m.ID = uuid.New()
			m.PrescriptionID = p.ID
			m.CreatedAt = time.Now()
			if err := insertMedication(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertMedication(ctx context.Context, tx sqlx.ExtContext, m *model.PrescriptionMedication) error {
	query := `
		INSERT INTO prescription_medications (
			id, prescription_id, name, dosage, frequency, duration, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.ExecContext(ctx, query,
		m.ID, m.PrescriptionID, m.Name, m.Dosage, m.Frequency, m.Duration, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert medication: %w", err)
	}
	return nil
}

func (r *medicalRepository) GetPrescription(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	query := fmt.Sprintf(`SELECT %s FROM prescriptions WHERE id = $1`, prescriptionColumns)

	var p model.Prescription
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}

	medications, err := r.ListMedications(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Medications = medications
	return &p, nil
}

func (r *medicalRepository) ListPrescriptions(ctx context.Context, scope access.Scope, animalID *uuid.UUID) ([]*model.Prescription, error) {
	query := fmt.Sprintf(`SELECT %s FROM prescriptions WHERE 1=1`, prescriptionColumns)
	args := []interface{}{}
	argCount := 1

	query, args, argCount = scopePredicate(query, scope, args, argCount)
	if animalID != nil {
		query += fmt.Sprintf(" AND animal_id = $%d", argCount)
		args = append(args, *animalID)
		argCount++
	}
	query += " ORDER BY issued_at DESC"

	var prescriptions []*model.Prescription
	if err := r.db.SelectContext(ctx, &prescriptions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (r *medicalRepository) UpdatePrescription(ctx context.Context, p *model.Prescription) error {
	query := `
		UPDATE prescriptions
		SET notes = $1, status = $2, updated_at = $3
		WHERE id = $4
	`
	p.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query, p.Notes, p.Status, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}
	return requireRowsAffected(result, "prescription")
}

func (r *medicalRepository) AddMedication(ctx context.Context, m *model.PrescriptionMedication) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	return insertMedication(ctx, r.db, m)
}

func (r *medicalRepository) ListMedications(ctx context.Context, prescriptionID uuid.UUID) ([]*model.PrescriptionMedication, error) {
	query := `
		SELECT id, prescription_id, name, dosage, frequency, duration, created_at
		FROM prescription_medications
		WHERE prescription_id = $1
		ORDER BY created_at ASC
	`
	var medications []*model.PrescriptionMedication
	if err := r.db.SelectContext(ctx, &medications, query, prescriptionID); err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	return medications, nil
}
