package sharelink

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type fakeShareLinkRepo struct {
	byCode  map[string]*model.ShareLink
	created *model.ShareLink
	byOwner map[uuid.UUID][]*model.ShareLink
}

func (f *fakeShareLinkRepo) Create(_ context.Context, link *model.ShareLink) error {
	link.ID = uuid.New()
	f.created = link
	return nil
}

func (f *fakeShareLinkRepo) Get(_ context.Context, id uuid.UUID) (*model.ShareLink, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeShareLinkRepo) GetByCode(_ context.Context, code string) (*model.ShareLink, error) {
	link, ok := f.byCode[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return link, nil
}

func (f *fakeShareLinkRepo) List(_ context.Context, _ *uuid.UUID) ([]*model.ShareLink, error) {
	return nil, nil
}

func (f *fakeShareLinkRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*model.ShareLink, error) {
	return f.byOwner[ownerID], nil
}

// Access mirrors the guarded update: active, unexpired, with a free slot.
func (f *fakeShareLinkRepo) Access(_ context.Context, code string, now time.Time) (*model.ShareLink, error) {
	link, ok := f.byCode[code]
	if !ok || !link.IsActive || !link.ExpiresAt.After(now) {
		return nil, sql.ErrNoRows
	}
	if link.MaxAccess != nil && link.AccessCount >= *link.MaxAccess {
		return nil, sql.ErrNoRows
	}
	link.AccessCount++
	return link, nil
}

func (f *fakeShareLinkRepo) Deactivate(_ context.Context, _ uuid.UUID) error { return nil }

type fakeAnimalRepo struct {
	animals map[uuid.UUID]*model.Animal
}

func (f *fakeAnimalRepo) Create(_ context.Context, _ *model.Animal) error { return nil }

func (f *fakeAnimalRepo) Get(_ context.Context, id uuid.UUID) (*model.Animal, error) {
	animal, ok := f.animals[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return animal, nil
}

func (f *fakeAnimalRepo) List(_ context.Context, _ access.Scope) ([]*model.Animal, error) {
	return nil, nil
}

func (f *fakeAnimalRepo) ListByOwner(_ context.Context, _ uuid.UUID) ([]*model.Animal, error) {
	return nil, nil
}

func (f *fakeAnimalRepo) Update(_ context.Context, _ *model.Animal) error     { return nil }
func (f *fakeAnimalRepo) Deactivate(_ context.Context, _ uuid.UUID) error     { return nil }
func (f *fakeAnimalRepo) AddWeightEntry(_ context.Context, _ *model.WeightEntry) error {
	return nil
}

func (f *fakeAnimalRepo) ListWeightEntries(_ context.Context, _ uuid.UUID) ([]*model.WeightEntry, error) {
	return nil, nil
}

type fakeOwnerRepo struct {
	owners map[uuid.UUID]*model.Owner
}

func (f *fakeOwnerRepo) Create(_ context.Context, _ *model.Owner) error { return nil }

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

type fakeConsultationRepo struct{}

func (fakeConsultationRepo) Create(_ context.Context, _ *model.Consultation) error { return nil }
func (fakeConsultationRepo) Get(_ context.Context, _ uuid.UUID) (*model.Consultation, error) {
	return nil, sql.ErrNoRows
}
func (fakeConsultationRepo) List(_ context.Context, _ access.Scope, _ *uuid.UUID) ([]*model.Consultation, error) {
	return []*model.Consultation{}, nil
}
func (fakeConsultationRepo) Update(_ context.Context, _ *model.Consultation) error { return nil }
func (fakeConsultationRepo) Delete(_ context.Context, _ uuid.UUID) error           { return nil }

type fakeMedicalRepo struct{}

func (fakeMedicalRepo) CreateVaccination(_ context.Context, _ *model.Vaccination) error { return nil }
func (fakeMedicalRepo) GetVaccination(_ context.Context, _ uuid.UUID) (*model.Vaccination, error) {
	return nil, sql.ErrNoRows
}
func (fakeMedicalRepo) ListVaccinations(_ context.Context, _ access.Scope, _ *uuid.UUID) ([]*model.Vaccination, error) {
	return []*model.Vaccination{}, nil
}
func (fakeMedicalRepo) UpcomingVaccinations(_ context.Context, _ access.Scope, _, _ time.Time) ([]*model.Vaccination, error) {
	return nil, nil
}
func (fakeMedicalRepo) DeleteVaccination(_ context.Context, _ uuid.UUID) error { return nil }
func (fakeMedicalRepo) CreateCertificate(_ context.Context, _ *model.Certificate) error {
	return nil
}
func (fakeMedicalRepo) GetCertificate(_ context.Context, _ uuid.UUID) (*model.Certificate, error) {
	return nil, sql.ErrNoRows
}
func (fakeMedicalRepo) ListCertificates(_ context.Context, _ access.Scope, _ *uuid.UUID) ([]*model.Certificate, error) {
	return []*model.Certificate{}, nil
}
func (fakeMedicalRepo) DeleteCertificate(_ context.Context, _ uuid.UUID) error { return nil }
func (fakeMedicalRepo) CreatePrescription(_ context.Context, _ *model.Prescription) error {
	return nil
}
func (fakeMedicalRepo) GetPrescription(_ context.Context, _ uuid.UUID) (*model.Prescription, error) {
	return nil, sql.ErrNoRows
}
func (fakeMedicalRepo) ListPrescriptions(_ context.Context, _ access.Scope, _ *uuid.UUID) ([]*model.Prescription, error) {
	return nil, nil
}
func (fakeMedicalRepo) UpdatePrescription(_ context.Context, _ *model.Prescription) error {
	return nil
}
func (fakeMedicalRepo) AddMedication(_ context.Context, _ *model.PrescriptionMedication) error {
	return nil
}
func (fakeMedicalRepo) ListMedications(_ context.Context, _ uuid.UUID) ([]*model.PrescriptionMedication, error) {
	return nil, nil
}

func newTestService(repo *fakeShareLinkRepo, animals *fakeAnimalRepo, owners *fakeOwnerRepo, now time.Time) *Service {
	svc := NewService(repo, animals, owners, fakeConsultationRepo{}, fakeMedicalRepo{})
	svc.now = func() time.Time { return now }
	return svc
}

func seedAnimal(ownerName string) (*fakeAnimalRepo, *fakeOwnerRepo, uuid.UUID) {
	ownerID := uuid.New()
	animalID := uuid.New()
	animals := &fakeAnimalRepo{animals: map[uuid.UUID]*model.Animal{
		animalID: {ClinicID: uuid.New(), OwnerID: ownerID, Name: "Rex", Species: "dog", IsActive: true},
	}}
	owners := &fakeOwnerRepo{owners: map[uuid.UUID]*model.Owner{
		ownerID: {Name: ownerName},
	}}
	return animals, owners, animalID
}

func TestCreateDefaultsExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	animals, owners, animalID := seedAnimal("Jamie")
	repo := &fakeShareLinkRepo{byCode: map[string]*model.ShareLink{}}
	svc := newTestService(repo, animals, owners, now)

	identity := access.Identity{UserID: uuid.New(), Role: model.RoleVeterinarian}
	link, err := svc.Create(context.Background(), identity, &model.CreateShareLinkRequest{
		AnimalID: animalID.String(),
	})
	require.NoError(t, err)

	assert.Len(t, link.Code, 32)
	assert.True(t, link.IsActive)
	assert.Equal(t, now.AddDate(0, 0, DefaultExpiryDays), link.ExpiresAt)
	assert.Equal(t, identity.UserID, link.CreatedBy)
}

func TestCreateUnknownAnimal(t *testing.T) {
	animals, owners, _ := seedAnimal("Jamie")
	svc := newTestService(&fakeShareLinkRepo{byCode: map[string]*model.ShareLink{}}, animals, owners, time.Now())

	_, err := svc.Create(context.Background(), access.Identity{UserID: uuid.New()}, &model.CreateShareLinkRequest{
		AnimalID: uuid.New().String(),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCreateOwnerForeignAnimalDenied(t *testing.T) {
	animals, owners, animalID := seedAnimal("Jamie")
	svc := newTestService(&fakeShareLinkRepo{byCode: map[string]*model.ShareLink{}}, animals, owners, time.Now())

	foreignOwner := uuid.New()
	identity := access.Identity{UserID: uuid.New(), Role: model.RoleOwner, OwnerID: &foreignOwner}

	// A different owner's animal and a missing one deny identically.
	_, err := svc.Create(context.Background(), identity, &model.CreateShareLinkRequest{AnimalID: animalID.String()})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))

	_, missingErr := svc.Create(context.Background(), identity, &model.CreateShareLinkRequest{AnimalID: uuid.New().String()})
	require.Error(t, missingErr)
	assert.Equal(t, err.Error(), missingErr.Error())
}

func TestCreateOwnerOwnAnimal(t *testing.T) {
	ownerID := uuid.New()
	animalID := uuid.New()
	animals := &fakeAnimalRepo{animals: map[uuid.UUID]*model.Animal{
		animalID: {ClinicID: uuid.New(), OwnerID: ownerID, Name: "Rex", IsActive: true},
	}}
	owners := &fakeOwnerRepo{owners: map[uuid.UUID]*model.Owner{ownerID: {Name: "Jamie"}}}
	svc := newTestService(&fakeShareLinkRepo{byCode: map[string]*model.ShareLink{}}, animals, owners, time.Now())

	identity := access.Identity{UserID: uuid.New(), Role: model.RoleOwner, OwnerID: &ownerID}
	link, err := svc.Create(context.Background(), identity, &model.CreateShareLinkRequest{AnimalID: animalID.String()})
	require.NoError(t, err)
	assert.Len(t, link.Code, 32)
}

func TestCreateCrossClinicStaffDenied(t *testing.T) {
	animals, owners, animalID := seedAnimal("Jamie")
	svc := newTestService(&fakeShareLinkRepo{byCode: map[string]*model.ShareLink{}}, animals, owners, time.Now())

	otherClinic := uuid.New()
	identity := access.Identity{UserID: uuid.New(), Role: model.RoleVeterinarian, ClinicID: &otherClinic}

	_, err := svc.Create(context.Background(), identity, &model.CreateShareLinkRequest{AnimalID: animalID.String()})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
}

func TestListOwnerScopedToOwnAnimals(t *testing.T) {
	ownerID := uuid.New()
	own := &model.ShareLink{Base: model.Base{ID: uuid.New()}, Code: "mine"}
	repo := &fakeShareLinkRepo{
		byOwner: map[uuid.UUID][]*model.ShareLink{ownerID: {own}},
	}
	animals, owners, _ := seedAnimal("Jamie")
	svc := newTestService(repo, animals, owners, time.Now())

	identity := access.Identity{UserID: uuid.New(), Role: model.RoleOwner, OwnerID: &ownerID}
	links, err := svc.List(context.Background(), identity)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "mine", links[0].Code)

	// An owner identity without an owner scope gets nothing back.
	_, err = svc.List(context.Background(), access.Identity{UserID: uuid.New(), Role: model.RoleOwner})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
}

func TestResolveConsumesSlots(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	animals, owners, animalID := seedAnimal("Jamie")
	maxAccess := 2
	repo := &fakeShareLinkRepo{byCode: map[string]*model.ShareLink{
		"abc": {AnimalID: animalID, Code: "abc", ExpiresAt: now.Add(time.Hour), MaxAccess: &maxAccess, IsActive: true},
	}}
	svc := newTestService(repo, animals, owners, now)

	for i := 0; i < maxAccess; i++ {
		view, err := svc.Resolve(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "Rex", view.Animal.Name)
		assert.Equal(t, "Jamie", view.OwnerName)
	}

	_, err := svc.Resolve(context.Background(), "abc")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeGone))
	assert.Contains(t, err.Error(), "access limit")
}

func TestResolveUnknownCode(t *testing.T) {
	animals, owners, _ := seedAnimal("Jamie")
	svc := newTestService(&fakeShareLinkRepo{byCode: map[string]*model.ShareLink{}}, animals, owners, time.Now())

	_, err := svc.Resolve(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestResolveRevoked(t *testing.T) {
	now := time.Now()
	animals, owners, animalID := seedAnimal("Jamie")
	repo := &fakeShareLinkRepo{byCode: map[string]*model.ShareLink{
		"abc": {AnimalID: animalID, Code: "abc", ExpiresAt: now.Add(time.Hour), IsActive: false},
	}}
	svc := newTestService(repo, animals, owners, now)

	_, err := svc.Resolve(context.Background(), "abc")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeGone))
	assert.Contains(t, err.Error(), "revoked")
}

func TestResolveExpired(t *testing.T) {
	now := time.Now()
	animals, owners, animalID := seedAnimal("Jamie")
	repo := &fakeShareLinkRepo{byCode: map[string]*model.ShareLink{
		"abc": {AnimalID: animalID, Code: "abc", ExpiresAt: now.Add(-time.Minute), IsActive: true},
	}}
	svc := newTestService(repo, animals, owners, now)

	_, err := svc.Resolve(context.Background(), "abc")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeGone))
	assert.Contains(t, err.Error(), "expired")
}
