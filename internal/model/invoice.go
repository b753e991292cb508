package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

type Invoice struct {
	Base
	ClinicID      uuid.UUID       `db:"clinic_id" json:"clinic_id"`
	OwnerID       uuid.UUID       `db:"owner_id" json:"owner_id"`
	Number        string          `db:"number" json:"number"`
	Status        InvoiceStatus   `db:"status" json:"status"`
	Total         decimal.Decimal `db:"total" json:"total"`
	IssuedAt      time.Time       `db:"issued_at" json:"issued_at"`
	DueAt         *time.Time      `db:"due_at" json:"due_at,omitempty"`
	PaymentDate   *time.Time      `db:"payment_date" json:"payment_date,omitempty"`
	PaymentMethod *string         `db:"payment_method" json:"payment_method,omitempty"`
	Items         []*InvoiceItem  `db:"-" json:"items,omitempty"`
}

type InvoiceItem struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	InvoiceID   uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	Description string          `db:"description" json:"description"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
}

type CreateInvoiceRequest struct {
	OwnerID string                     `json:"owner_id" binding:"required,uuid"`
	DueAt   *time.Time                 `json:"due_at"`
	Items   []CreateInvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

type CreateInvoiceItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

type PayInvoiceRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}
