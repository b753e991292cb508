package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StockStatus string

const (
	StockStatusOK       StockStatus = "ok"
	StockStatusLow      StockStatus = "low"
	StockStatusCritical StockStatus = "critical"
)

type InventoryItem struct {
	Base
	ClinicID  uuid.UUID       `db:"clinic_id" json:"clinic_id"`
	Name      string          `db:"name" json:"name"`
	SKU       *string         `db:"sku" json:"sku,omitempty"`
	Category  string          `db:"category" json:"category"`
	Quantity  int             `db:"quantity" json:"quantity"`
	MinStock  int             `db:"min_stock" json:"min_stock"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	IsActive  bool            `db:"is_active" json:"is_active"`
}

// StockStatus classifies the item for the alerts endpoint.
func (i *InventoryItem) StockStatus() StockStatus {
	switch {
	case i.Quantity <= 0:
		return StockStatusCritical
	case i.Quantity <= i.MinStock:
		return StockStatusLow
	default:
		return StockStatusOK
	}
}

type InventoryItemWithStatus struct {
	*InventoryItem
	Status StockStatus `json:"status"`
}

type MovementKind string

const (
	MovementIn     MovementKind = "IN"
	MovementOut    MovementKind = "OUT"
	MovementAdjust MovementKind = "ADJUST"
)

type StockMovement struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	ItemID    uuid.UUID    `db:"item_id" json:"item_id"`
	Kind      MovementKind `db:"kind" json:"kind"`
	Quantity  int          `db:"quantity" json:"quantity"`
	Reason    string       `db:"reason" json:"reason,omitempty"`
	UserID    *uuid.UUID   `db:"user_id" json:"user_id,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

type CreateInventoryItemRequest struct {
	Name      string          `json:"name" binding:"required"`
	SKU       *string         `json:"sku"`
	Category  string          `json:"category" binding:"required"`
	Quantity  int             `json:"quantity" binding:"gte=0"`
	MinStock  int             `json:"min_stock" binding:"gte=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type UpdateInventoryItemRequest struct {
	Name      *string          `json:"name"`
	SKU       *string          `json:"sku"`
	Category  *string          `json:"category"`
	MinStock  *int             `json:"min_stock" binding:"omitempty,gte=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	IsActive  *bool            `json:"is_active"`
}

type AdjustStockRequest struct {
	Kind     MovementKind `json:"kind" binding:"required,oneof=IN OUT ADJUST"`
	Quantity int          `json:"quantity" binding:"required"`
	Reason   string       `json:"reason"`
}
