package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
)

type inventoryRepository struct {
	BaseRepository
}

func NewInventoryRepository(db *sqlx.DB) repository.InventoryRepository {
	return &inventoryRepository{BaseRepository{db: db}}
}

const inventoryColumns = `id, clinic_id, name, sku, category, quantity, min_stock,
	   unit_price, is_active, created_at, updated_at`

func (r *inventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (
			id, clinic_id, name, sku, category, quantity, min_stock,
			unit_price, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	item.IsActive = true

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.ClinicID, item.Name, item.SKU, item.Category,
		item.Quantity, item.MinStock, item.UnitPrice, item.IsActive,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

func (r *inventoryRepository) Get(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM inventory_items WHERE id = $1`, inventoryColumns)

	var item model.InventoryItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return &item, nil
}

func (r *inventoryRepository) List(ctx context.Context, clinicID *uuid.UUID) ([]*model.InventoryItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM inventory_items WHERE is_active = true`, inventoryColumns)
	args := []interface{}{}

	if clinicID != nil {
		query += " AND clinic_id = $1"
		args = append(args, *clinicID)
	}
	query += " ORDER BY name ASC"

	var items []*model.InventoryItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	return items, nil
}

func (r *inventoryRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET name = $1, sku = $2, category = $3, min_stock = $4,
			unit_price = $5, is_active = $6, updated_at = $7
		WHERE id = $8
	`
	item.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		item.Name, item.SKU, item.Category, item.MinStock,
		item.UnitPrice, item.IsActive, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	return requireRowsAffected(result, "inventory item")
}

// Adjust applies the stock delta and records the movement atomically. The
// guarded update keeps the quantity from going negative even under concurrent
// adjustments.
func (r *inventoryRepository) Adjust(ctx context.Context, movement *model.StockMovement, delta int) (int, error) {
	movement.ID = uuid.New()
	movement.CreatedAt = time.Now()

	var newQuantity int
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		update := `
			UPDATE inventory_items
			SET quantity = quantity + $1, updated_at = $2
			WHERE id = $3 AND quantity + $1 >= 0
			RETURNING quantity
		`
		if err := tx.GetContext(ctx, &newQuantity, update, delta, time.Now(), movement.ItemID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Either the item is missing or the delta would
				// overdraw it; distinguish for the caller.
				var exists bool
				check := `SELECT EXISTS (SELECT 1 FROM inventory_items WHERE id = $1)`
				if checkErr := tx.GetContext(ctx, &exists, check, movement.ItemID); checkErr != nil {
					return fmt.Errorf("failed to check inventory item: %w", checkErr)
				}
				if exists {
					return repository.ErrInsufficientStock
				}
				return fmt.Errorf("inventory item not found: %w", err)
			}
			return fmt.Errorf("failed to adjust stock: %w", err)
		}

		insert := `
			INSERT INTO stock_movements (id, item_id, kind, quantity, reason, user_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.ExecContext(ctx, insert,
			movement.ID, movement.ItemID, movement.Kind, movement.Quantity,
			movement.Reason, movement.UserID, movement.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newQuantity, nil
}
