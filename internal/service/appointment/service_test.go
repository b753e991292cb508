package appointment

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

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	completed    *model.Consultation
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	apt.ID = uuid.New()
	f.appointments[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *apt
	return &copied, nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, _ access.Scope, _ model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	f.appointments[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus, cancelReason *string) error {
	apt, ok := f.appointments[id]
	if !ok {
		return sql.ErrNoRows
	}
	apt.Status = status
	apt.CancelReason = cancelReason
	return nil
}

func (f *fakeAppointmentRepo) CompleteWithConsultation(_ context.Context, id uuid.UUID, consultation *model.Consultation) error {
	apt, ok := f.appointments[id]
	if !ok || apt.Status == model.AppointmentStatusCompleted {
		return sql.ErrNoRows
	}
	apt.Status = model.AppointmentStatusCompleted
	consultation.ID = uuid.New()
	f.completed = consultation
	return nil
}

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

func (f *fakeAnimalRepo) Update(_ context.Context, _ *model.Animal) error { return nil }
func (f *fakeAnimalRepo) Deactivate(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakeAnimalRepo) AddWeightEntry(_ context.Context, _ *model.WeightEntry) error {
	return nil
}

func (f *fakeAnimalRepo) ListWeightEntries(_ context.Context, _ uuid.UUID) ([]*model.WeightEntry, error) {
	return nil, nil
}

func seedAppointment(status model.AppointmentStatus) (*fakeAppointmentRepo, *model.Appointment) {
	apt := &model.Appointment{
		ClinicID: uuid.New(),
		AnimalID: uuid.New(),
		Status:   status,
	}
	apt.ID = uuid.New()
	repo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*model.Appointment{apt.ID: apt}}
	return repo, apt
}

func TestTransitionAllowed(t *testing.T) {
	cases := []struct {
		from, to model.AppointmentStatus
		ok       bool
	}{
		{model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed, true},
		{model.AppointmentStatusScheduled, model.AppointmentStatusCancelled, true},
		{model.AppointmentStatusConfirmed, model.AppointmentStatusCompleted, true},
		{model.AppointmentStatusConfirmed, model.AppointmentStatusScheduled, false},
		{model.AppointmentStatusCompleted, model.AppointmentStatusCancelled, false},
		{model.AppointmentStatusCancelled, model.AppointmentStatusScheduled, false},
		{model.AppointmentStatusNoShow, model.AppointmentStatusConfirmed, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, transitionAllowed(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	repo, apt := seedAppointment(model.AppointmentStatusScheduled)
	svc := NewService(repo, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), apt.ID, &model.UpdateAppointmentStatusRequest{
		Status: "done",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestUpdateStatusDisallowedTransition(t *testing.T) {
	repo, apt := seedAppointment(model.AppointmentStatusCompleted)
	svc := NewService(repo, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), apt.ID, &model.UpdateAppointmentStatusRequest{
		Status: model.AppointmentStatusCancelled,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}

func TestUpdateStatusCancelKeepsReason(t *testing.T) {
	repo, apt := seedAppointment(model.AppointmentStatusScheduled)
	svc := NewService(repo, nil, nil)

	reason := "owner called in sick"
	updated, err := svc.UpdateStatus(context.Background(), apt.ID, &model.UpdateAppointmentStatusRequest{
		Status:       model.AppointmentStatusCancelled,
		CancelReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, updated.Status)
	require.NotNil(t, updated.CancelReason)
	assert.Equal(t, reason, *updated.CancelReason)
}

// The cancel reason only applies to cancellations.
func TestUpdateStatusReasonIgnoredOtherwise(t *testing.T) {
	repo, apt := seedAppointment(model.AppointmentStatusScheduled)
	svc := NewService(repo, nil, nil)

	reason := "should be dropped"
	updated, err := svc.UpdateStatus(context.Background(), apt.ID, &model.UpdateAppointmentStatusRequest{
		Status:       model.AppointmentStatusConfirmed,
		CancelReason: &reason,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CancelReason)
}

func TestCompleteRecordsConsultation(t *testing.T) {
	repo, apt := seedAppointment(model.AppointmentStatusConfirmed)
	svc := NewService(repo, nil, nil)

	identity := access.Identity{UserID: uuid.New(), Role: model.RoleVeterinarian}
	consultation, err := svc.Complete(context.Background(), identity, apt.ID, &model.CompleteAppointmentRequest{
		Diagnosis: "otitis externa",
		Treatment: "ear drops, 7 days",
	})
	require.NoError(t, err)

	assert.Equal(t, apt.AnimalID, consultation.AnimalID)
	require.NotNil(t, consultation.AppointmentID)
	assert.Equal(t, apt.ID, *consultation.AppointmentID)
	// The completing vet is recorded when the appointment had none assigned.
	require.NotNil(t, consultation.VetID)
	assert.Equal(t, identity.UserID, *consultation.VetID)
	assert.Equal(t, model.AppointmentStatusCompleted, repo.appointments[apt.ID].Status)
}

func TestCompleteClosedAppointment(t *testing.T) {
	repo, apt := seedAppointment(model.AppointmentStatusCancelled)
	svc := NewService(repo, nil, nil)

	_, err := svc.Complete(context.Background(), access.Identity{UserID: uuid.New()}, apt.ID, &model.CompleteAppointmentRequest{
		Diagnosis: "n/a",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}

func seedOwnedAnimal() (*fakeAnimalRepo, uuid.UUID, uuid.UUID, uuid.UUID) {
	ownerID := uuid.New()
	clinicID := uuid.New()
	animalID := uuid.New()
	animals := &fakeAnimalRepo{animals: map[uuid.UUID]*model.Animal{
		animalID: {ClinicID: clinicID, OwnerID: ownerID, Name: "Rex", IsActive: true},
	}}
	return animals, animalID, ownerID, clinicID
}

func TestCreateOwnerOwnAnimal(t *testing.T) {
	animals, animalID, ownerID, clinicID := seedOwnedAnimal()
	repo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*model.Appointment{}}
	svc := NewService(repo, animals, nil)

	identity := access.Identity{UserID: uuid.New(), Role: model.RoleOwner, OwnerID: &ownerID}
	apt, err := svc.Create(context.Background(), identity, &model.CreateAppointmentRequest{
		AnimalID: animalID.String(),
		Date:     time.Now().Add(24 * time.Hour),
		Reason:   "annual checkup",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, clinicID, apt.ClinicID)
}

func TestCreateOwnerForeignAnimalDenied(t *testing.T) {
	animals, animalID, _, _ := seedOwnedAnimal()
	repo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*model.Appointment{}}
	svc := NewService(repo, animals, nil)

	foreignOwner := uuid.New()
	identity := access.Identity{UserID: uuid.New(), Role: model.RoleOwner, OwnerID: &foreignOwner}

	// Another owner's animal and a nonexistent one deny identically, so the
	// response does not reveal which ids exist.
	_, err := svc.Create(context.Background(), identity, &model.CreateAppointmentRequest{
		AnimalID: animalID.String(),
		Date:     time.Now().Add(24 * time.Hour),
		Reason:   "annual checkup",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))

	_, missingErr := svc.Create(context.Background(), identity, &model.CreateAppointmentRequest{
		AnimalID: uuid.New().String(),
		Date:     time.Now().Add(24 * time.Hour),
		Reason:   "annual checkup",
	})
	require.Error(t, missingErr)
	assert.Equal(t, err.Error(), missingErr.Error())
	assert.Empty(t, repo.appointments)
}

func TestCreateCrossClinicStaffDenied(t *testing.T) {
	animals, animalID, _, _ := seedOwnedAnimal()
	repo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*model.Appointment{}}
	svc := NewService(repo, animals, nil)

	otherClinic := uuid.New()
	identity := access.Identity{UserID: uuid.New(), Role: model.RoleVeterinarian, ClinicID: &otherClinic}

	_, err := svc.Create(context.Background(), identity, &model.CreateAppointmentRequest{
		AnimalID: animalID.String(),
		Date:     time.Now().Add(24 * time.Hour),
		Reason:   "annual checkup",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
}
