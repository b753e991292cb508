package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type fakeAnalyticsRepo struct {
	appointmentsToday int
	appointmentsMonth int
	activeAnimals     int
	unreadMessages    int
	stockLevels       []*model.InventoryItem
	stockErr          error
	revenueByMonth    map[string]decimal.Decimal
	revenueErr        error
	pendingInvoices   int
	vaccinationsDue   int
	consultations     int
	consultationsFrom time.Time
	consultationsTo   time.Time
	owners            int

	recentAppointments []*model.Appointment
	recentConsults     []*model.Consultation
	recentInvoices     []*model.Invoice
	recentInvoicesErr  error
}

func (f *fakeAnalyticsRepo) CountAppointmentsBetween(_ context.Context, _ *uuid.UUID, from, to time.Time) (int, error) {
	if to.Sub(from) <= 24*time.Hour {
		return f.appointmentsToday, nil
	}
	return f.appointmentsMonth, nil
}

func (f *fakeAnalyticsRepo) CountActiveAnimals(_ context.Context, _ *uuid.UUID) (int, error) {
	return f.activeAnimals, nil
}

func (f *fakeAnalyticsRepo) CountUnreadOwnerMessages(_ context.Context, _ *uuid.UUID) (int, error) {
	return f.unreadMessages, nil
}

func (f *fakeAnalyticsRepo) ListStockLevels(_ context.Context, _ *uuid.UUID) ([]*model.InventoryItem, error) {
	return f.stockLevels, f.stockErr
}

func (f *fakeAnalyticsRepo) SumPaidInvoices(_ context.Context, _ *uuid.UUID, from, _ time.Time) (decimal.Decimal, error) {
	if f.revenueErr != nil {
		return decimal.Zero, f.revenueErr
	}
	if sum, ok := f.revenueByMonth[from.Format("2006-01")]; ok {
		return sum, nil
	}
	return decimal.Zero, nil
}

func (f *fakeAnalyticsRepo) CountPendingInvoices(_ context.Context, _ *uuid.UUID) (int, error) {
	return f.pendingInvoices, nil
}

func (f *fakeAnalyticsRepo) CountVaccinationsDue(_ context.Context, _ *uuid.UUID, _, _ time.Time) (int, error) {
	return f.vaccinationsDue, nil
}

func (f *fakeAnalyticsRepo) CountConsultationsBetween(_ context.Context, _ *uuid.UUID, from, to time.Time) (int, error) {
	f.consultationsFrom = from
	f.consultationsTo = to
	return f.consultations, nil
}

func (f *fakeAnalyticsRepo) CountOwners(_ context.Context) (int, error) {
	return f.owners, nil
}

func (f *fakeAnalyticsRepo) RecentAppointments(_ context.Context, _ *uuid.UUID, _ int) ([]*model.Appointment, error) {
	return f.recentAppointments, nil
}

func (f *fakeAnalyticsRepo) RecentConsultations(_ context.Context, _ *uuid.UUID, _ int) ([]*model.Consultation, error) {
	return f.recentConsults, nil
}

func (f *fakeAnalyticsRepo) RecentInvoices(_ context.Context, _ *uuid.UUID, _ int) ([]*model.Invoice, error) {
	return f.recentInvoices, f.recentInvoicesErr
}

func (f *fakeAnalyticsRepo) TodayAppointments(_ context.Context, _ *uuid.UUID, _, _ time.Time) ([]*model.Appointment, error) {
	return []*model.Appointment{}, nil
}

func (f *fakeAnalyticsRepo) TodayConsultations(_ context.Context, _ *uuid.UUID, _, _ time.Time) ([]*model.Consultation, error) {
	return []*model.Consultation{}, nil
}

func TestDashboardAggregates(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		appointmentsToday: 4,
		appointmentsMonth: 37,
		activeAnimals:     120,
		unreadMessages:    6,
		stockLevels: []*model.InventoryItem{
			{Name: "ok", Quantity: 10, MinStock: 2},
			{Name: "low", Quantity: 2, MinStock: 5},
			{Name: "out", Quantity: 0, MinStock: 5},
		},
		revenueByMonth:  map[string]decimal.Decimal{time.Now().Format("2006-01"): decimal.NewFromInt(1250)},
		pendingInvoices: 3,
		vaccinationsDue: 7,
		consultations:   21,
		owners:          88,
	}
	svc := NewService(repo)

	clinicID := uuid.New()
	stats, err := svc.Dashboard(context.Background(), &clinicID)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.AppointmentsToday)
	assert.Equal(t, 37, stats.AppointmentsThisMonth)
	assert.Equal(t, 120, stats.ActivePatients)
	assert.Equal(t, 6, stats.UnreadMessages)
	assert.Equal(t, 2, stats.LowStockItems)
	assert.True(t, stats.RevenueThisMonth.Equal(decimal.NewFromInt(1250)))
	assert.Equal(t, 3, stats.PendingInvoices)
	assert.Equal(t, 7, stats.VaccinationsDueSoon)
	assert.Equal(t, 21, stats.RecentConsultations)
	assert.Equal(t, 88, stats.TotalOwners)
}

// A broken inventory scan must not take the dashboard down.
func TestDashboardLowStockFailsSoft(t *testing.T) {
	repo := &fakeAnalyticsRepo{stockErr: errors.New("inventory scan failed")}
	svc := NewService(repo)

	stats, err := svc.Dashboard(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.LowStockItems)
}

func TestDashboardCounterError(t *testing.T) {
	repo := &fakeAnalyticsRepo{revenueErr: errors.New("sum failed")}
	svc := NewService(repo)

	_, err := svc.Dashboard(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInternal))
}

func TestDashboardConsultationsWindow(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	repo := &fakeAnalyticsRepo{consultations: 5}
	svc := NewService(repo)
	svc.now = func() time.Time { return now }

	stats, err := svc.Dashboard(context.Background(), nil)
	require.NoError(t, err)

	// Recent consultations count the trailing seven days, not the month.
	assert.Equal(t, 5, stats.RecentConsultations)
	assert.Equal(t, now.AddDate(0, 0, -7), repo.consultationsFrom)
	assert.Equal(t, now, repo.consultationsTo)
}

func TestActivityAggregates(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		recentAppointments: []*model.Appointment{{Base: model.Base{ID: uuid.New()}}},
		recentConsults:     []*model.Consultation{{Base: model.Base{ID: uuid.New()}}, {Base: model.Base{ID: uuid.New()}}},
		recentInvoices:     []*model.Invoice{{Base: model.Base{ID: uuid.New()}}},
	}
	svc := NewService(repo)

	feed, err := svc.Activity(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, feed.Appointments, 1)
	assert.Len(t, feed.Consultations, 2)
	assert.Len(t, feed.Invoices, 1)
}

func TestActivityReadError(t *testing.T) {
	repo := &fakeAnalyticsRepo{recentInvoicesErr: errors.New("read failed")}
	svc := NewService(repo)

	_, err := svc.Activity(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInternal))
}

func TestRevenueSeries(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeAnalyticsRepo{revenueByMonth: map[string]decimal.Decimal{
		"2026-08": decimal.NewFromInt(900),
		"2026-06": decimal.NewFromInt(400),
	}}
	svc := NewService(repo)
	svc.now = func() time.Time { return now }

	series, err := svc.Revenue(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, series, revenueSeriesMonths)

	// Oldest bucket first, current month last; empty months report zero.
	assert.Equal(t, "2026-03", series[0].Month)
	assert.Equal(t, "2026-08", series[5].Month)
	assert.True(t, series[0].Revenue.IsZero())
	assert.True(t, series[3].Revenue.Equal(decimal.NewFromInt(400)))
	assert.True(t, series[5].Revenue.Equal(decimal.NewFromInt(900)))
}
