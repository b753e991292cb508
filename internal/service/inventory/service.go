package inventory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type Service struct {
	repo repository.InventoryRepository
}

func NewService(repo repository.InventoryRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, identity access.Identity, req *model.CreateInventoryItemRequest) (*model.InventoryItem, error) {
	if identity.ClinicID == nil {
		return nil, apperror.Forbidden("access denied")
	}

	item := &model.InventoryItem{
		ClinicID:  *identity.ClinicID,
		Name:      req.Name,
		SKU:       req.SKU,
		Category:  req.Category,
		Quantity:  req.Quantity,
		MinStock:  req.MinStock,
		UnitPrice: req.UnitPrice,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, apperror.Internal(err)
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, identity access.Identity, id uuid.UUID) (*model.InventoryItem, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("inventory item")
		}
		return nil, apperror.Internal(err)
	}
	if identity.ClinicID != nil && item.ClinicID != *identity.ClinicID {
		return nil, apperror.Forbidden("access denied")
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, identity access.Identity) ([]*model.InventoryItem, error) {
	items, err := s.repo.List(ctx, identity.ClinicID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return items, nil
}

// Alerts returns items at or below their threshold, tagged with severity.
func (s *Service) Alerts(ctx context.Context, identity access.Identity) ([]*model.InventoryItemWithStatus, error) {
	items, err := s.List(ctx, identity)
	if err != nil {
		return nil, err
	}

	alerts := []*model.InventoryItemWithStatus{}
	for _, item := range items {
		if status := item.StockStatus(); status != model.StockStatusOK {
			alerts = append(alerts, &model.InventoryItemWithStatus{InventoryItem: item, Status: status})
		}
	}
	return alerts, nil
}

func (s *Service) Update(ctx context.Context, identity access.Identity, id uuid.UUID, req *model.UpdateInventoryItemRequest) (*model.InventoryItem, error) {
	item, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.SKU != nil {
		item.SKU = req.SKU
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.MinStock != nil {
		item.MinStock = *req.MinStock
	}
	if req.UnitPrice != nil {
		item.UnitPrice = *req.UnitPrice
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("inventory item")
		}
		return nil, apperror.Internal(err)
	}
	return item, nil
}

// Adjust applies a stock movement. IN adds, OUT subtracts, ADJUST applies the
// signed quantity as-is. Overdrawing the stock is rejected.
func (s *Service) Adjust(ctx context.Context, identity access.Identity, id uuid.UUID, req *model.AdjustStockRequest) (*model.InventoryItem, error) {
	item, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	var delta int
	switch req.Kind {
	case model.MovementIn:
		if req.Quantity <= 0 {
			return nil, apperror.Validation("quantity must be positive")
		}
		delta = req.Quantity
	case model.MovementOut:
		if req.Quantity <= 0 {
			return nil, apperror.Validation("quantity must be positive")
		}
		delta = -req.Quantity
	case model.MovementAdjust:
		delta = req.Quantity
	default:
		return nil, apperror.Validation("invalid movement kind")
	}

	movement := &model.StockMovement{
		ItemID:   id,
		Kind:     req.Kind,
		Quantity: req.Quantity,
		Reason:   req.Reason,
		UserID:   &identity.UserID,
	}

	newQuantity, err := s.repo.Adjust(ctx, movement, delta)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, apperror.Validation("insufficient stock")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("inventory item")
		}
		return nil, apperror.Internal(err)
	}

	item.Quantity = newQuantity
	if item.StockStatus() != model.StockStatusOK {
		log.Warn().Str("item_id", id.String()).Int("quantity", newQuantity).Msg("stock below threshold")
	}
	return item, nil
}
