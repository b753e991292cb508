package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, clinicID *uuid.UUID) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type ClinicRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	Update(ctx context.Context, clinic *model.Clinic) error
	Stats(ctx context.Context, clinicID uuid.UUID) (*model.ClinicStats, error)
}

type OwnerRepository interface {
	Create(ctx context.Context, owner *model.Owner) error
	Get(ctx context.Context, id uuid.UUID) (*model.Owner, error)
	GetByEmail(ctx context.Context, email string) (*model.Owner, error)
	List(ctx context.Context, clinicID *uuid.UUID) ([]*model.Owner, error)
	Update(ctx context.Context, owner *model.Owner) error
}

type AnimalRepository interface {
	Create(ctx context.Context, animal *model.Animal) error
	Get(ctx context.Context, id uuid.UUID) (*model.Animal, error)
	List(ctx context.Context, scope access.Scope) ([]*model.Animal, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Animal, error)
	Update(ctx context.Context, animal *model.Animal) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	AddWeightEntry(ctx context.Context, entry *model.WeightEntry) error
	ListWeightEntries(ctx context.Context, animalID uuid.UUID) ([]*model.WeightEntry, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, scope access.Scope, filters model.AppointmentFilters) ([]*model.Appointment, error)
	Update(ctx context.Context, apt *model.Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, cancelReason *string) error
	CompleteWithConsultation(ctx context.Context, id uuid.UUID, consultation *model.Consultation) error
}

type ConsultationRepository interface {
	Create(ctx context.Context, c *model.Consultation) error
	Get(ctx context.Context, id uuid.UUID) (*model.Consultation, error)
	List(ctx context.Context, scope access.Scope, animalID *uuid.UUID) ([]*model.Consultation, error)
	Update(ctx context.Context, c *model.Consultation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MedicalRepository interface {
	CreateVaccination(ctx context.Context, v *model.Vaccination) error
	GetVaccination(ctx context.Context, id uuid.UUID) (*model.Vaccination, error)
	ListVaccinations(ctx context.Context, scope access.Scope, animalID *uuid.UUID) ([]*model.Vaccination, error)
	UpcomingVaccinations(ctx context.Context, scope access.Scope, from, to time.Time) ([]*model.Vaccination, error)
	DeleteVaccination(ctx context.Context, id uuid.UUID) error

	CreateCertificate(ctx context.Context, c *model.Certificate) error
	GetCertificate(ctx context.Context, id uuid.UUID) (*model.Certificate, error)
	ListCertificates(ctx context.Context, scope access.Scope, animalID *uuid.UUID) ([]*model.Certificate, error)
	DeleteCertificate(ctx context.Context, id uuid.UUID) error

	CreatePrescription(ctx context.Context, p *model.Prescription) error
	GetPrescription(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
	ListPrescriptions(ctx context.Context, scope access.Scope, animalID *uuid.UUID) ([]*model.Prescription, error)
	UpdatePrescription(ctx context.Context, p *model.Prescription) error
	AddMedication(ctx context.Context, m *model.PrescriptionMedication) error
	ListMedications(ctx context.Context, prescriptionID uuid.UUID) ([]*model.PrescriptionMedication, error)
}

// ErrInsufficientStock is returned by Adjust when an OUT movement exceeds the
// available quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	Get(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	List(ctx context.Context, clinicID *uuid.UUID) ([]*model.InventoryItem, error)
	Update(ctx context.Context, item *model.InventoryItem) error
	// Adjust applies the signed delta and records the movement in one
	// transaction. Returns the new quantity; fails when the delta would
	// drive the quantity negative.
	Adjust(ctx context.Context, movement *model.StockMovement, delta int) (int, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, scope access.Scope, status model.InvoiceStatus) ([]*model.Invoice, error)
	// MarkPaid flips status to PAID with a single conditional update;
	// returns false when the invoice was already paid or cancelled.
	MarkPaid(ctx context.Context, id uuid.UUID, method string, paidAt time.Time) (bool, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	Get(ctx context.Context, id uuid.UUID) (*model.Message, error)
	List(ctx context.Context, scope access.Scope, ownerID *uuid.UUID) ([]*model.Message, error)
	Conversations(ctx context.Context, clinicID *uuid.UUID) ([]*model.Conversation, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	ClearRead(ctx context.Context, userID uuid.UUID) error
}

type ReminderRepository interface {
	Create(ctx context.Context, r *model.Reminder) error
	Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error)
	List(ctx context.Context, clinicID *uuid.UUID, status model.ReminderStatus) ([]*model.Reminder, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Reminder, error)
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	Cancel(ctx context.Context, id uuid.UUID) error
}

type ReviewRepository interface {
	Create(ctx context.Context, r *model.Review) error
	Get(ctx context.Context, id uuid.UUID) (*model.Review, error)
	List(ctx context.Context, clinicID *uuid.UUID, publishedOnly bool) ([]*model.Review, error)
	Respond(ctx context.Context, id uuid.UUID, response string) error
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
}

type ShareLinkRepository interface {
	Create(ctx context.Context, link *model.ShareLink) error
	Get(ctx context.Context, id uuid.UUID) (*model.ShareLink, error)
	GetByCode(ctx context.Context, code string) (*model.ShareLink, error)
	List(ctx context.Context, clinicID *uuid.UUID) ([]*model.ShareLink, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.ShareLink, error)
	// Access atomically consumes one access slot. Returns the link when the
	// guarded update matched; sql.ErrNoRows when no valid slot remained.
	Access(ctx context.Context, code string, now time.Time) (*model.ShareLink, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type AnalyticsRepository interface {
	CountAppointmentsBetween(ctx context.Context, clinicID *uuid.UUID, from, to time.Time) (int, error)
	CountActiveAnimals(ctx context.Context, clinicID *uuid.UUID) (int, error)
	CountUnreadOwnerMessages(ctx context.Context, clinicID *uuid.UUID) (int, error)
	ListStockLevels(ctx context.Context, clinicID *uuid.UUID) ([]*model.InventoryItem, error)
	SumPaidInvoices(ctx context.Context, clinicID *uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	CountPendingInvoices(ctx context.Context, clinicID *uuid.UUID) (int, error)
	CountVaccinationsDue(ctx context.Context, clinicID *uuid.UUID, from, to time.Time) (int, error)
	CountConsultationsBetween(ctx context.Context, clinicID *uuid.UUID, from, to time.Time) (int, error)
	CountOwners(ctx context.Context) (int, error)
	RecentAppointments(ctx context.Context, clinicID *uuid.UUID, limit int) ([]*model.Appointment, error)
	RecentConsultations(ctx context.Context, clinicID *uuid.UUID, limit int) ([]*model.Consultation, error)
	RecentInvoices(ctx context.Context, clinicID *uuid.UUID, limit int) ([]*model.Invoice, error)
	TodayAppointments(ctx context.Context, clinicID *uuid.UUID, from, to time.Time) ([]*model.Appointment, error)
	TodayConsultations(ctx context.Context, clinicID *uuid.UUID, from, to time.Time) ([]*model.Consultation, error)
}
