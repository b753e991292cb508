package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/clinic-api/internal/model"
)

func TestCompleteWithConsultationAssignsIdentity(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	aptID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE appointments").
		WithArgs(model.AppointmentStatusCompleted, sqlmock.AnyArg(), aptID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO consultations").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	consultation := &model.Consultation{
		ClinicID:  uuid.New(),
		AnimalID:  uuid.New(),
		Date:      time.Now(),
		Diagnosis: "otitis externa",
	}
	require.NoError(t, repo.CompleteWithConsultation(context.Background(), aptID, consultation))

	// The row gets its own primary key and timestamps before the insert.
	assert.NotEqual(t, uuid.Nil, consultation.ID)
	assert.False(t, consultation.CreatedAt.IsZero())
	assert.False(t, consultation.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteWithConsultationRollsBackOnClosed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	aptID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE appointments").
		WithArgs(model.AppointmentStatusCompleted, sqlmock.AnyArg(), aptID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CompleteWithConsultation(context.Background(), aptID, &model.Consultation{})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
