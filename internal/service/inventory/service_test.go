package inventory

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

type fakeInventoryRepo struct {
	items     map[uuid.UUID]*model.InventoryItem
	movements []*model.StockMovement
}

func (f *fakeInventoryRepo) Create(_ context.Context, item *model.InventoryItem) error {
	item.ID = uuid.New()
	f.items[item.ID] = item
	return nil
}

func (f *fakeInventoryRepo) Get(_ context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *item
	return &copied, nil
}

func (f *fakeInventoryRepo) List(_ context.Context, _ *uuid.UUID) ([]*model.InventoryItem, error) {
	items := make([]*model.InventoryItem, 0, len(f.items))
	for _, item := range f.items {
		items = append(items, item)
	}
	return items, nil
}

func (f *fakeInventoryRepo) Update(_ context.Context, item *model.InventoryItem) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeInventoryRepo) Adjust(_ context.Context, movement *model.StockMovement, delta int) (int, error) {
	item, ok := f.items[movement.ItemID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	if item.Quantity+delta < 0 {
		return 0, repository.ErrInsufficientStock
	}
	item.Quantity += delta
	f.movements = append(f.movements, movement)
	return item.Quantity, nil
}

func seedItem(quantity, minStock int) (*fakeInventoryRepo, *model.InventoryItem, access.Identity) {
	clinicID := uuid.New()
	item := &model.InventoryItem{
		ClinicID: clinicID,
		Name:     "amoxicillin 250mg",
		Category: "medication",
		Quantity: quantity,
		MinStock: minStock,
		IsActive: true,
	}
	item.ID = uuid.New()
	repo := &fakeInventoryRepo{items: map[uuid.UUID]*model.InventoryItem{item.ID: item}}
	identity := access.Identity{UserID: uuid.New(), Role: model.RoleAdmin, ClinicID: &clinicID}
	return repo, item, identity
}

func TestAdjustIn(t *testing.T) {
	repo, item, identity := seedItem(5, 2)
	svc := NewService(repo)

	updated, err := svc.Adjust(context.Background(), identity, item.ID, &model.AdjustStockRequest{
		Kind: model.MovementIn, Quantity: 3, Reason: "restock",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Quantity)

	require.Len(t, repo.movements, 1)
	assert.Equal(t, model.MovementIn, repo.movements[0].Kind)
	assert.Equal(t, 3, repo.movements[0].Quantity)
}

func TestAdjustOut(t *testing.T) {
	repo, item, identity := seedItem(5, 2)
	svc := NewService(repo)

	updated, err := svc.Adjust(context.Background(), identity, item.ID, &model.AdjustStockRequest{
		Kind: model.MovementOut, Quantity: 4, Reason: "dispensed",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Quantity)
}

func TestAdjustOutInsufficientStock(t *testing.T) {
	repo, item, identity := seedItem(2, 1)
	svc := NewService(repo)

	_, err := svc.Adjust(context.Background(), identity, item.ID, &model.AdjustStockRequest{
		Kind: model.MovementOut, Quantity: 5, Reason: "dispensed",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	assert.Equal(t, 2, repo.items[item.ID].Quantity)
}

func TestAdjustSignedCorrection(t *testing.T) {
	repo, item, identity := seedItem(10, 2)
	svc := NewService(repo)

	updated, err := svc.Adjust(context.Background(), identity, item.ID, &model.AdjustStockRequest{
		Kind: model.MovementAdjust, Quantity: -4, Reason: "stocktake correction",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Quantity)
}

func TestAdjustRejectsNonPositiveMovement(t *testing.T) {
	repo, item, identity := seedItem(5, 2)
	svc := NewService(repo)

	for _, kind := range []model.MovementKind{model.MovementIn, model.MovementOut} {
		_, err := svc.Adjust(context.Background(), identity, item.ID, &model.AdjustStockRequest{
			Kind: kind, Quantity: 0,
		})
		require.Error(t, err, string(kind))
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	}
}

func TestGetCrossClinic(t *testing.T) {
	repo, item, _ := seedItem(5, 2)
	svc := NewService(repo)

	otherClinic := uuid.New()
	identity := access.Identity{UserID: uuid.New(), Role: model.RoleAdmin, ClinicID: &otherClinic}
	_, err := svc.Get(context.Background(), identity, item.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
}

func TestAlertsSeverity(t *testing.T) {
	repo, _, identity := seedItem(0, 2)
	healthy := &model.InventoryItem{ClinicID: *identity.ClinicID, Name: "gauze", Quantity: 50, MinStock: 10}
	healthy.ID = uuid.New()
	low := &model.InventoryItem{ClinicID: *identity.ClinicID, Name: "syringes", Quantity: 3, MinStock: 5}
	low.ID = uuid.New()
	repo.items[healthy.ID] = healthy
	repo.items[low.ID] = low
	svc := NewService(repo)

	alerts, err := svc.Alerts(context.Background(), identity)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	byName := map[string]model.StockStatus{}
	for _, alert := range alerts {
		byName[alert.Name] = alert.Status
	}
	assert.Equal(t, model.StockStatusCritical, byName["amoxicillin 250mg"])
	assert.Equal(t, model.StockStatusLow, byName["syringes"])
}
