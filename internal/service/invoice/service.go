package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Service struct {
	repo   repository.InvoiceRepository
	owners repository.OwnerRepository
}

func NewService(repo repository.InvoiceRepository, owners repository.OwnerRepository) *Service {
	return &Service{repo: repo, owners: owners}
}

// Create issues an invoice. Line amounts and the total are computed
// server-side from quantity and unit price; client-supplied totals are never
// trusted.
func (s *Service) Create(ctx context.Context, identity access.Identity, req *model.CreateInvoiceRequest) (*model.Invoice, error) {
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return nil, apperror.Validation("invalid owner id")
	}

	owner, err := s.owners.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.Validation("owner not found")
		}
		return nil, apperror.Internal(err)
	}
	if identity.ClinicID != nil && owner.ClinicID != *identity.ClinicID {
		return nil, apperror.Forbidden("access denied")
	}

	invoice := &model.Invoice{
		ClinicID: owner.ClinicID,
		OwnerID:  ownerID,
		Number:   newInvoiceNumber(),
		Status:   model.InvoiceStatusPending,
		IssuedAt: time.Now(),
		DueAt:    req.DueAt,
	}

	total := decimal.Zero
	for _, line := range req.Items {
		amount := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		invoice.Items = append(invoice.Items, &model.InvoiceItem{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      amount,
		})
		total = total.Add(amount)
	}
	invoice.Total = total

	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, apperror.Internal(err)
	}
	return invoice, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("invoice")
		}
		return nil, apperror.Internal(err)
	}
	return invoice, nil
}

func (s *Service) List(ctx context.Context, identity access.Identity, status model.InvoiceStatus) ([]*model.Invoice, error) {
	invoices, err := s.repo.List(ctx, identity.ListScope(), status)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return invoices, nil
}

// Pay settles the invoice. A second pay attempt, or paying a cancelled
// invoice, is a conflict; the guarded update makes the check race-free.
func (s *Service) Pay(ctx context.Context, id uuid.UUID, req *model.PayInvoiceRequest) (*model.Invoice, error) {
	paid, err := s.repo.MarkPaid(ctx, id, req.PaymentMethod, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("invoice")
		}
		return nil, apperror.Internal(err)
	}
	if !paid {
		return nil, apperror.Conflict("invoice is not payable")
	}

	log.Info().Str("invoice_id", id.String()).Msg("invoice paid")
	return s.Get(ctx, id)
}

// newInvoiceNumber derives a human-readable reference from the timestamp and
// a uuid fragment. Uniqueness is enforced by the database.
func newInvoiceNumber() string {
	return fmt.Sprintf("INV-%s-%s", time.Now().Format("20060102"), uuid.New().String()[:8])
}
