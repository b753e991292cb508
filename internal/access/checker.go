package access

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/pkg/apperror"
)

// Resource names an entity type guarded by row-level checks.
type Resource string

const (
	ResourceAnimal       Resource = "animal"
	ResourceAppointment  Resource = "appointment"
	ResourceConsultation Resource = "consultation"
	ResourceVaccination  Resource = "vaccination"
	ResourceCertificate  Resource = "certificate"
	ResourcePrescription Resource = "prescription"
	ResourceInvoice      Resource = "invoice"
	ResourceMessage      Resource = "message"
	ResourceShareLink    Resource = "share_link"
)

// RecordScope is the resolved ownership of one record: the clinic it belongs
// to and the owner it traces back to (directly or through its animal).
type RecordScope struct {
	ClinicID uuid.UUID `db:"clinic_id"`
	OwnerID  uuid.UUID `db:"owner_id"`
}

// ScopeResolver resolves a record's scope with a narrow query. Implementations
// return sql.ErrNoRows when the record (or its ownership chain) is missing.
type ScopeResolver interface {
	ResolveScope(ctx context.Context, resource Resource, id uuid.UUID) (*RecordScope, error)
}

// Checker decides record visibility for an identity. Every ambiguous case
// denies: a missing record, a broken ownership chain, or a credential without
// the scope field a rule needs all fail closed.
type Checker struct {
	resolver ScopeResolver
}

func NewChecker(resolver ScopeResolver) *Checker {
	return &Checker{resolver: resolver}
}

// Can returns nil when the identity may read or mutate the record.
//
// Staff get the 404/403 distinction; OWNER callers get a uniform denial so
// they cannot probe for the existence of records outside their scope.
func (c *Checker) Can(ctx context.Context, identity Identity, resource Resource, id uuid.UUID) error {
	scope, err := c.resolver.ResolveScope(ctx, resource, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if identity.Role.IsStaff() {
				return apperror.NotFound(string(resource))
			}
			return apperror.Forbidden("access denied")
		}
		return apperror.Internal(err)
	}

	if identity.Role.IsStaff() {
		if identity.ClinicID != nil && *identity.ClinicID != scope.ClinicID {
			return apperror.Forbidden("access denied")
		}
		return nil
	}

	if identity.OwnerID == nil || *identity.OwnerID != scope.OwnerID {
		return apperror.Forbidden("access denied")
	}
	return nil
}

// CanAccessAnimal reports whether the identity may access the animal.
func (c *Checker) CanAccessAnimal(ctx context.Context, identity Identity, animalID uuid.UUID) error {
	return c.Can(ctx, identity, ResourceAnimal, animalID)
}

// CanAccessAppointment resolves through the appointment's animal.
func (c *Checker) CanAccessAppointment(ctx context.Context, identity Identity, appointmentID uuid.UUID) error {
	return c.Can(ctx, identity, ResourceAppointment, appointmentID)
}
