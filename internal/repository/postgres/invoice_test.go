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

func TestInvoiceMarkPaid(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceRepository(db)

	id := uuid.New()
	paidAt := time.Now()

	mock.ExpectExec("UPDATE invoices").
		WithArgs(model.InvoiceStatusPaid, paidAt, "card", sqlmock.AnyArg(), id,
			model.InvoiceStatusPending, model.InvoiceStatusOverdue).
		WillReturnResult(sqlmock.NewResult(0, 1))

	paid, err := repo.MarkPaid(context.Background(), id, "card", paidAt)
	require.NoError(t, err)
	assert.True(t, paid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An invoice already paid or cancelled does not match the conditional update.
func TestInvoiceMarkPaidNotPayable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceRepository(db)

	id := uuid.New()
	mock.ExpectExec("UPDATE invoices").
		WithArgs(model.InvoiceStatusPaid, sqlmock.AnyArg(), "cash", sqlmock.AnyArg(), id,
			model.InvoiceStatusPending, model.InvoiceStatusOverdue).
		WillReturnResult(sqlmock.NewResult(0, 0))

	paid, err := repo.MarkPaid(context.Background(), id, "cash", time.Now())
	require.NoError(t, err)
	assert.False(t, paid)
	assert.NoError(t, mock.ExpectationsWereMet())
}
