package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats are the independent counters shown on the staff dashboard.
type DashboardStats struct {
	AppointmentsToday     int             `json:"appointments_today"`
	ActivePatients        int             `json:"active_patients"`
	UnreadMessages        int             `json:"unread_messages"`
	LowStockItems         int             `json:"low_stock_items"`
	AppointmentsThisMonth int             `json:"appointments_this_month"`
	RevenueThisMonth      decimal.Decimal `json:"revenue_this_month"`
	PendingInvoices       int             `json:"pending_invoices"`
	VaccinationsDueSoon   int             `json:"vaccinations_due_soon"`
	RecentConsultations   int             `json:"recent_consultations"`
	TotalOwners           int             `json:"total_owners"`
}

// MonthRevenue is one bucket of the trailing revenue series.
type MonthRevenue struct {
	Month   string          `json:"month"` // YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
}

type TodayOverview struct {
	Appointments  []*Appointment  `json:"appointments"`
	Consultations []*Consultation `json:"consultations"`
}

type ActivityFeed struct {
	Appointments  []*Appointment  `json:"appointments"`
	Consultations []*Consultation `json:"consultations"`
	Invoices      []*Invoice      `json:"invoices"`
}

// MonthWindow returns [start of t's month, start of the next month).
func MonthWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// DayWindow returns [start of t's day, start of the next day).
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
