package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
)

type analyticsRepository struct {
	BaseRepository
}

func NewAnalyticsRepository(db *sqlx.DB) repository.AnalyticsRepository {
	return &analyticsRepository{BaseRepository{db: db}}
}

// countScoped runs a COUNT query, optionally appending a clinic predicate.
// Every counter here follows the same shape: one scalar, one optional scope.
func (r *analyticsRepository) countScoped(ctx context.Context, base string, clinicID *uuid.UUID, args ...interface{}) (int, error) {
	query := base
	if clinicID != nil {
		query += fmt.Sprintf(" AND clinic_id = $%d", len(args)+1)
		args = append(args, *clinicID)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *analyticsRepository) CountAppointmentsBetween(ctx context.Context, clinicID *uuid.UUID, from, to time.Time) (int, error) {
	return r.countScoped(ctx,
		`SELECT COUNT(*) FROM appointments WHERE date >= $1 AND date < $2`,
		clinicID, from, to)
}

func (r *analyticsRepository) CountActiveAnimals(ctx context.Context, clinicID *uuid.UUID) (int, error) {
	return r.countScoped(ctx,
		`SELECT COUNT(*) FROM animals WHERE is_active = true`,
		clinicID)
}

// CountUnreadOwnerMessages counts unread messages with no sender, i.e.
// owner-authored messages awaiting staff attention.
func (r *analyticsRepository) CountUnreadOwnerMessages(ctx context.Context, clinicID *uuid.UUID) (int, error) {
	return r.countScoped(ctx,
		`SELECT COUNT(*) FROM messages WHERE sender_user_id IS NULL AND is_read = false`,
		clinicID)
}

// ListStockLevels returns quantity and threshold for every active item; the
// low-stock comparison happens in the service.
func (r *analyticsRepository) ListStockLevels(ctx context.Context, clinicID *uuid.UUID) ([]*model.InventoryItem, error) {
	query := `SELECT id, clinic_id, quantity, min_stock FROM inventory_items WHERE is_active = true`
	args := []interface{}{}
	if clinicID != nil {
		query += " AND clinic_id = $1"
		args = append(args, *clinicID)
	}

	var items []*model.InventoryItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list stock levels: %w", err)
	}
	return items, nil
}

func (r *analyticsRepository) SumPaidInvoices(ctx context.Context, clinicID *uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total), 0)
		FROM invoices
		WHERE status = 'PAID' AND payment_date >= $1 AND payment_date < $2
	`
	args := []interface{}{from, to}
	if clinicID != nil {
		query += " AND clinic_id = $3"
		args = append(args, *clinicID)
	}

	var sum decimal.Decimal
	if err := r.db.GetContext(ctx, &sum, query, args...); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum paid invoices: %w", err)
	}
	return sum, nil
}

func (r *analyticsRepository) CountPendingInvoices(ctx context.Context, clinicID *uuid.UUID) (int, error) {
	return r.countScoped(ctx,
		`SELECT COUNT(*) FROM invoices WHERE status IN ('PENDING', 'OVERDUE')`,
		clinicID)
}

func (r *analyticsRepository) CountVaccinationsDue(ctx context.Context, clinicID *uuid.UUID, from, to time.Time) (int, error) {
	return r.countScoped(ctx,
		`SELECT COUNT(*) FROM vaccinations WHERE next_due_at >= $1 AND next_due_at < $2`,
		clinicID, from, to)
}

func (r *analyticsRepository) CountConsultationsBetween(ctx context.Context, clinicID *uuid.UUID, from, to time.Time) (int, error) {
	return r.countScoped(ctx,
		`SELECT COUNT(*) FROM consultations WHERE date >= $1 AND date < $2`,
		clinicID, from, to)
}

// CountOwners is deliberately unscoped; the dashboard reports the global
// owner count.
func (r *analyticsRepository) CountOwners(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM owners`); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *analyticsRepository) RecentAppointments(ctx context.Context, clinicID *uuid.UUID, limit int) ([]*model.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE 1=1`, appointmentColumns)
	return r.selectAppointments(ctx, query, clinicID, limit, "created_at DESC")
}

func (r *analyticsRepository) TodayAppointments(ctx context.Context, clinicID *uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE date >= $1 AND date < $2`, appointmentColumns)
	args := []interface{}{from, to}
	if clinicID != nil {
		query += " AND clinic_id = $3"
		args = append(args, *clinicID)
	}
	query += " ORDER BY date ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list today's appointments: %w", err)
	}
	return appointments, nil
}

func (r *analyticsRepository) selectAppointments(ctx context.Context, query string, clinicID *uuid.UUID, limit int, order string) ([]*model.Appointment, error) {
	args := []interface{}{}
	if clinicID != nil {
		query += " AND clinic_id = $1"
		args = append(args, *clinicID)
	}
	query += fmt.Sprintf(" ORDER BY %s LIMIT %d", order, limit)

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list recent appointments: %w", err)
	}
	return appointments, nil
}

func (r *analyticsRepository) RecentConsultations(ctx context.Context, clinicID *uuid.UUID, limit int) ([]*model.Consultation, error) {
	query := fmt.Sprintf(`SELECT %s FROM consultations WHERE 1=1`, consultationColumns)
	args := []interface{}{}
	if clinicID != nil {
		query += " AND clinic_id = $1"
		args = append(args, *clinicID)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", limit)

	var consultations []*model.Consultation
	if err := r.db.SelectContext(ctx, &consultations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list recent consultations: %w", err)
	}
	return consultations, nil
}

func (r *analyticsRepository) TodayConsultations(ctx context.Context, clinicID *uuid.UUID, from, to time.Time) ([]*model.Consultation, error) {
	query := fmt.Sprintf(`SELECT %s FROM consultations WHERE date >= $1 AND date < $2`, consultationColumns)
	args := []interface{}{from, to}
	if clinicID != nil {
		query += " AND clinic_id = $3"
		args = append(args, *clinicID)
	}
	query += " ORDER BY date ASC"

	var consultations []*model.Consultation
	if err := r.db.SelectContext(ctx, &consultations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list today's consultations: %w", err)
	}
	return consultations, nil
}

func (r *analyticsRepository) RecentInvoices(ctx context.Context, clinicID *uuid.UUID, limit int) ([]*model.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE 1=1`, invoiceColumns)
	args := []interface{}{}
	if clinicID != nil {
		query += " AND clinic_id = $1"
		args = append(args, *clinicID)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", limit)

	var invoices []*model.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list recent invoices: %w", err)
	}
	return invoices, nil
}
