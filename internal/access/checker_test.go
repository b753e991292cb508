package access

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type fakeResolver struct {
	scopes map[uuid.UUID]RecordScope
}

func (f *fakeResolver) ResolveScope(_ context.Context, _ Resource, id uuid.UUID) (*RecordScope, error) {
	scope, ok := f.scopes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &scope, nil
}

func staffIdentity(role model.Role, clinicID uuid.UUID) Identity {
	return Identity{UserID: uuid.New(), Role: role, ClinicID: &clinicID}
}

func ownerIdentity(ownerID uuid.UUID) Identity {
	return Identity{UserID: uuid.New(), Role: model.RoleOwner, OwnerID: &ownerID}
}

func TestCheckerStaffSameClinic(t *testing.T) {
	clinicID := uuid.New()
	recordID := uuid.New()
	checker := NewChecker(&fakeResolver{scopes: map[uuid.UUID]RecordScope{
		recordID: {ClinicID: clinicID, OwnerID: uuid.New()},
	}})

	err := checker.Can(context.Background(), staffIdentity(model.RoleVeterinarian, clinicID), ResourceAnimal, recordID)
	assert.NoError(t, err)
}

func TestCheckerStaffCrossClinic(t *testing.T) {
	recordID := uuid.New()
	checker := NewChecker(&fakeResolver{scopes: map[uuid.UUID]RecordScope{
		recordID: {ClinicID: uuid.New(), OwnerID: uuid.New()},
	}})

	err := checker.Can(context.Background(), staffIdentity(model.RoleReceptionist, uuid.New()), ResourceAnimal, recordID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
}

func TestCheckerStaffMissingRecord(t *testing.T) {
	checker := NewChecker(&fakeResolver{})

	err := checker.Can(context.Background(), staffIdentity(model.RoleAdmin, uuid.New()), ResourceInvoice, uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestCheckerOwnerOwnRecord(t *testing.T) {
	ownerID := uuid.New()
	recordID := uuid.New()
	checker := NewChecker(&fakeResolver{scopes: map[uuid.UUID]RecordScope{
		recordID: {ClinicID: uuid.New(), OwnerID: ownerID},
	}})

	err := checker.Can(context.Background(), ownerIdentity(ownerID), ResourceAnimal, recordID)
	assert.NoError(t, err)
}

// OWNER callers must not be able to tell a foreign record from a missing one.
func TestCheckerOwnerUniformDenial(t *testing.T) {
	foreignID := uuid.New()
	checker := NewChecker(&fakeResolver{scopes: map[uuid.UUID]RecordScope{
		foreignID: {ClinicID: uuid.New(), OwnerID: uuid.New()},
	}})
	identity := ownerIdentity(uuid.New())

	errForeign := checker.Can(context.Background(), identity, ResourceAnimal, foreignID)
	errMissing := checker.Can(context.Background(), identity, ResourceAnimal, uuid.New())

	require.Error(t, errForeign)
	require.Error(t, errMissing)
	assert.True(t, apperror.IsCode(errForeign, apperror.CodeForbidden))
	assert.True(t, apperror.IsCode(errMissing, apperror.CodeForbidden))
	assert.Equal(t, errForeign.Error(), errMissing.Error())
}

func TestCheckerOwnerWithoutScopeDenied(t *testing.T) {
	recordID := uuid.New()
	checker := NewChecker(&fakeResolver{scopes: map[uuid.UUID]RecordScope{
		recordID: {ClinicID: uuid.New(), OwnerID: uuid.New()},
	}})
	identity := Identity{UserID: uuid.New(), Role: model.RoleOwner}

	err := checker.Can(context.Background(), identity, ResourceAnimal, recordID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
}

func TestListScopeOwnerWithoutOwnerID(t *testing.T) {
	identity := Identity{UserID: uuid.New(), Role: model.RoleOwner}

	scope := identity.ListScope()
	require.NotNil(t, scope.OwnerID)
	assert.Equal(t, uuid.Nil, *scope.OwnerID)
}
