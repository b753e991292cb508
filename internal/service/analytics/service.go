package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

const (
	recentLimit            = 10
	recentConsultationDays = 7
	vaccinationDueDays     = 30
	revenueSeriesMonths    = 6
)

type Service struct {
	repo repository.AnalyticsRepository

	now func() time.Time
}

func NewService(repo repository.AnalyticsRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Dashboard gathers the counters concurrently; each one is independent so
// they share nothing but the clinic scope. The low-stock scan is the only
// counter allowed to fail soft: a broken inventory query degrades that number
// to zero instead of taking the whole dashboard down.
func (s *Service) Dashboard(ctx context.Context, clinicID *uuid.UUID) (*model.DashboardStats, error) {
	now := s.now()
	dayFrom, dayTo := model.DayWindow(now)
	monthFrom, monthTo := model.MonthWindow(now)

	stats := &model.DashboardStats{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}

	run(func() error {
		n, err := s.repo.CountAppointmentsBetween(ctx, clinicID, dayFrom, dayTo)
		stats.AppointmentsToday = n
		return err
	})
	run(func() error {
		n, err := s.repo.CountActiveAnimals(ctx, clinicID)
		stats.ActivePatients = n
		return err
	})
	run(func() error {
		n, err := s.repo.CountUnreadOwnerMessages(ctx, clinicID)
		stats.UnreadMessages = n
		return err
	})
	run(func() error {
		items, err := s.repo.ListStockLevels(ctx, clinicID)
		if err != nil {
			log.Warn().Err(err).Msg("low stock scan failed, reporting zero")
			return nil
		}
		n := 0
		for _, item := range items {
			if item.StockStatus() != model.StockStatusOK {
				n++
			}
		}
		stats.LowStockItems = n
		return nil
	})
	run(func() error {
		n, err := s.repo.CountAppointmentsBetween(ctx, clinicID, monthFrom, monthTo)
		stats.AppointmentsThisMonth = n
		return err
	})
	run(func() error {
		sum, err := s.repo.SumPaidInvoices(ctx, clinicID, monthFrom, monthTo)
		stats.RevenueThisMonth = sum
		return err
	})
	run(func() error {
		n, err := s.repo.CountPendingInvoices(ctx, clinicID)
		stats.PendingInvoices = n
		return err
	})
	run(func() error {
		n, err := s.repo.CountVaccinationsDue(ctx, clinicID, now, now.AddDate(0, 0, vaccinationDueDays))
		stats.VaccinationsDueSoon = n
		return err
	})
	run(func() error {
		n, err := s.repo.CountConsultationsBetween(ctx, clinicID, now.AddDate(0, 0, -recentConsultationDays), now)
		stats.RecentConsultations = n
		return err
	})
	run(func() error {
		n, err := s.repo.CountOwners(ctx)
		stats.TotalOwners = n
		return err
	})

	wg.Wait()
	if firstErr != nil {
		return nil, apperror.Internal(firstErr)
	}
	return stats, nil
}

// Revenue returns the trailing PAID revenue series, one bucket per calendar
// month including the current one. Empty months report zero.
func (s *Service) Revenue(ctx context.Context, clinicID *uuid.UUID) ([]*model.MonthRevenue, error) {
	now := s.now()
	series := make([]*model.MonthRevenue, 0, revenueSeriesMonths)

	for i := revenueSeriesMonths - 1; i >= 0; i-- {
		from, to := model.MonthWindow(now.AddDate(0, -i, 0))
		sum, err := s.repo.SumPaidInvoices(ctx, clinicID, from, to)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		series = append(series, &model.MonthRevenue{
			Month:   from.Format("2006-01"),
			Revenue: sum,
		})
	}
	return series, nil
}

func (s *Service) Today(ctx context.Context, clinicID *uuid.UUID) (*model.TodayOverview, error) {
	from, to := model.DayWindow(s.now())

	appointments, err := s.repo.TodayAppointments(ctx, clinicID, from, to)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	consultations, err := s.repo.TodayConsultations(ctx, clinicID, from, to)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &model.TodayOverview{Appointments: appointments, Consultations: consultations}, nil
}

// Activity issues the three feed reads concurrently and joins them, the same
// shape as Dashboard. Each goroutine writes a distinct field.
func (s *Service) Activity(ctx context.Context, clinicID *uuid.UUID) (*model.ActivityFeed, error) {
	feed := &model.ActivityFeed{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}

	run(func() error {
		rows, err := s.repo.RecentAppointments(ctx, clinicID, recentLimit)
		feed.Appointments = rows
		return err
	})
	run(func() error {
		rows, err := s.repo.RecentConsultations(ctx, clinicID, recentLimit)
		feed.Consultations = rows
		return err
	})
	run(func() error {
		rows, err := s.repo.RecentInvoices(ctx, clinicID, recentLimit)
		feed.Invoices = rows
		return err
	})

	wg.Wait()
	if firstErr != nil {
		return nil, apperror.Internal(firstErr)
	}
	return feed, nil
}
