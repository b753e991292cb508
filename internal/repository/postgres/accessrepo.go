package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vetcare/clinic-api/internal/access"
)

// scopeQueries maps each guarded resource to the narrow query that resolves
// its clinic and owner. Records that hang off an animal join through it so a
// dangling animal_id surfaces as sql.ErrNoRows and the guard fails closed.
var scopeQueries = map[access.Resource]string{
	access.ResourceAnimal: `
		SELECT clinic_id, owner_id FROM animals WHERE id = $1`,
	access.ResourceAppointment: `
		SELECT a.clinic_id, a.owner_id
		FROM appointments ap JOIN animals a ON a.id = ap.animal_id
		WHERE ap.id = $1`,
	access.ResourceConsultation: `
		SELECT a.clinic_id, a.owner_id
		FROM consultations c JOIN animals a ON a.id = c.animal_id
		WHERE c.id = $1`,
	access.ResourceVaccination: `
		SELECT a.clinic_id, a.owner_id
		FROM vaccinations v JOIN animals a ON a.id = v.animal_id
		WHERE v.id = $1`,
	access.ResourceCertificate: `
		SELECT a.clinic_id, a.owner_id
		FROM certificates ce JOIN animals a ON a.id = ce.animal_id
		WHERE ce.id = $1`,
	access.ResourcePrescription: `
		SELECT a.clinic_id, a.owner_id
		FROM prescriptions p JOIN animals a ON a.id = p.animal_id
		WHERE p.id = $1`,
	access.ResourceInvoice: `
		SELECT clinic_id, owner_id FROM invoices WHERE id = $1`,
	access.ResourceMessage: `
		SELECT clinic_id, owner_id FROM messages WHERE id = $1`,
	access.ResourceShareLink: `
		SELECT a.clinic_id, a.owner_id
		FROM share_links sl JOIN animals a ON a.id = sl.animal_id
		WHERE sl.id = $1`,
}

type accessRepository struct {
	BaseRepository
}

func NewAccessRepository(db *sqlx.DB) access.ScopeResolver {
	return &accessRepository{BaseRepository{db: db}}
}

func (r *accessRepository) ResolveScope(ctx context.Context, resource access.Resource, id uuid.UUID) (*access.RecordScope, error) {
	query, ok := scopeQueries[resource]
	if !ok {
		return nil, fmt.Errorf("no scope query for resource %q", resource)
	}

	var scope access.RecordScope
	if err := r.db.GetContext(ctx, &scope, query, id); err != nil {
		return nil, err
	}
	return &scope, nil
}
