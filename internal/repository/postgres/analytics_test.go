package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumPaidInvoicesScoped(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnalyticsRepository(db)

	clinicID := uuid.New()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total\), 0\)`).
		WithArgs(from, to, clinicID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("1234.50"))

	sum, err := repo.SumPaidInvoices(context.Background(), &clinicID, from, to)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("1234.50")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSumPaidInvoicesEmptyWindow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnalyticsRepository(db)

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total\), 0\)`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("0"))

	sum, err := repo.SumPaidInvoices(context.Background(), nil, from, to)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The clinic predicate is appended only when a scope is given.
func TestCountActiveAnimalsScoped(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnalyticsRepository(db)

	clinicID := uuid.New()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM animals WHERE is_active = true AND clinic_id = \$1`).
		WithArgs(clinicID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountActiveAnimals(context.Background(), &clinicID)
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountActiveAnimalsUnscoped(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnalyticsRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM animals WHERE is_active = true`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountActiveAnimals(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
