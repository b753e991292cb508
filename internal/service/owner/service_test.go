package owner

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type fakeOwnerRepo struct {
	owners    map[uuid.UUID]*model.Owner
	createErr error
}

func (f *fakeOwnerRepo) Create(_ context.Context, owner *model.Owner) error {
	if f.createErr != nil {
		return f.createErr
	}
	owner.ID = uuid.New()
	f.owners[owner.ID] = owner
	return nil
}

func (f *fakeOwnerRepo) Get(_ context.Context, id uuid.UUID) (*model.Owner, error) {
	owner, ok := f.owners[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return owner, nil
}

func (f *fakeOwnerRepo) GetByEmail(_ context.Context, _ string) (*model.Owner, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeOwnerRepo) List(_ context.Context, _ *uuid.UUID) ([]*model.Owner, error) {
	return nil, nil
}

func (f *fakeOwnerRepo) Update(_ context.Context, _ *model.Owner) error { return nil }

func staffIdentity() access.Identity {
	clinicID := uuid.New()
	return access.Identity{UserID: uuid.New(), Role: model.RoleReceptionist, ClinicID: &clinicID}
}

func TestCreateOwner(t *testing.T) {
	repo := &fakeOwnerRepo{owners: map[uuid.UUID]*model.Owner{}}
	svc := NewService(repo, nil)

	identity := staffIdentity()
	owner, err := svc.Create(context.Background(), identity, &model.CreateOwnerRequest{
		Name:  "Jamie Price",
		Email: "jamie@example.test",
	})
	require.NoError(t, err)
	assert.Equal(t, *identity.ClinicID, owner.ClinicID)
	assert.NotEqual(t, uuid.Nil, owner.ID)
}

func TestCreateOwnerDuplicateEmail(t *testing.T) {
	repo := &fakeOwnerRepo{createErr: &pq.Error{Code: "23505"}}
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), staffIdentity(), &model.CreateOwnerRequest{
		Name:  "Jamie Price",
		Email: "jamie@example.test",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}

func TestGetOwnerSelfOnly(t *testing.T) {
	repo := &fakeOwnerRepo{owners: map[uuid.UUID]*model.Owner{}}
	me := &model.Owner{Base: model.Base{ID: uuid.New()}, Name: "Jamie Price"}
	repo.owners[me.ID] = me
	other := &model.Owner{Base: model.Base{ID: uuid.New()}, Name: "Sam Doyle"}
	repo.owners[other.ID] = other
	svc := NewService(repo, nil)

	identity := access.Identity{UserID: uuid.New(), Role: model.RoleOwner, OwnerID: &me.ID}

	owner, err := svc.Get(context.Background(), identity, me.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jamie Price", owner.Name)

	// A foreign profile and a missing one deny identically.
	_, foreignErr := svc.Get(context.Background(), identity, other.ID)
	require.Error(t, foreignErr)
	assert.True(t, apperror.IsCode(foreignErr, apperror.CodeForbidden))

	_, missingErr := svc.Get(context.Background(), identity, uuid.New())
	require.Error(t, missingErr)
	assert.Equal(t, foreignErr.Error(), missingErr.Error())
}
