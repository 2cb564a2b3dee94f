package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/infrastructure/memory"
)

type fixedProjector struct {
	daily float64
	ok    bool
}

func (p fixedProjector) ProjectDailyDemand(context.Context, int64, int) (float64, bool, error) {
	return p.daily, p.ok, nil
}

func reorderFixture(t *testing.T, projector inventory.DemandProjector) (memory.Repositories, *inventory.ReorderUseCase) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	ctx := context.Background()
	for _, sku := range []string{"GEMELO-1", "GEMELO-2", "QUIETO"} {
		require.NoError(t, repos.Products.Create(ctx, &entity.Product{
			SKU: sku, Name: sku, UnitPrice: decimal.NewFromInt(10), ReorderQuantity: 5, Active: true,
		}))
	}
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{Code: "A", Name: "A", Active: true}))

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, pid := range []int64{1, 2} {
		for d := 1; d <= 30; d++ {
			qty := int64(2 + d%3)
			require.NoError(t, repos.Movements.Append(ctx, &entity.StockMovement{
				ProductID: pid, WarehouseID: 1, Type: entity.MovementTypeOUT, Quantity: -qty,
				CreatedAt: today.AddDate(0, 0, -d).Add(10 * time.Hour),
			}))
		}
		// traslados y entradas no son demanda
		require.NoError(t, repos.Movements.Append(ctx, &entity.StockMovement{
			ProductID: pid, WarehouseID: 1, Type: entity.MovementTypeTRANSFER, Quantity: -50,
			CreatedAt: today.AddDate(0, 0, -3),
		}))
	}
	uc := inventory.NewReorderUseCase(repos.Products, repos.Warehouses, repos.Levels, repos.Movements, projector, inventory.DefaultReorderSettings())
	return repos, uc
}

func TestSuggest_HistorialesIgualesDanLaMismaSugerencia(t *testing.T) {
	_, uc := reorderFixture(t, nil)
	ctx := context.Background()

	a, err := uc.Suggest(ctx, 1)
	require.NoError(t, err)
	b, err := uc.Suggest(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, a.ReorderPoint, b.ReorderPoint)
	assert.Equal(t, a.EconomicOrderQuantity, b.EconomicOrderQuantity)
	assert.Equal(t, a.SafetyStock, b.SafetyStock)
	assert.True(t, a.EstimatedAnnualSavings.Equal(b.EstimatedAnnualSavings))

	again, err := uc.Suggest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, a, again)

	// 90 unidades en 90 días de ventana -> 1/día
	assert.InDelta(t, 90.0/90.0, a.AverageDailyDemand, 1e-9)
	assert.GreaterOrEqual(t, a.ReorderQuantity, a.EconomicOrderQuantity)
	assert.GreaterOrEqual(t, a.ReorderPoint, a.SafetyStock)
	assert.Equal(t, 7, a.LeadTimeDays)
}

func TestSuggest_SinDemanda(t *testing.T) {
	_, uc := reorderFixture(t, nil)
	s, err := uc.Suggest(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.ReorderPoint)
	assert.Equal(t, int64(0), s.SafetyStock)
	assert.Equal(t, int64(1), s.EconomicOrderQuantity)
	assert.Equal(t, int64(5), s.ReorderQuantity)
}

func TestSuggest_ProductoDesconocido(t *testing.T) {
	_, uc := reorderFixture(t, nil)
	_, err := uc.Suggest(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
}

func TestSuggest_OverrideDeLeadTime(t *testing.T) {
	repos, uc := reorderFixture(t, nil)
	ctx := context.Background()
	base, err := uc.Suggest(ctx, 1)
	require.NoError(t, err)

	p, err := repos.Products.GetByID(ctx, 1)
	require.NoError(t, err)
	lead := 21
	p.LeadTimeDays = &lead
	require.NoError(t, repos.Products.Update(ctx, p))

	longer, err := uc.Suggest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 21, longer.LeadTimeDays)
	assert.Greater(t, longer.ReorderPoint, base.ReorderPoint)
}

func TestReplenishmentList_OrdenaPorCobertura(t *testing.T) {
	repos, uc := reorderFixture(t, fixedProjector{daily: 2, ok: true})
	ctx := context.Background()

	require.NoError(t, repos.Levels.Save(ctx, &entity.StockLevel{ProductID: 1, WarehouseID: 1, Quantity: 4}))
	require.NoError(t, repos.Levels.Save(ctx, &entity.StockLevel{ProductID: 2, WarehouseID: 1, Quantity: 1000}))
	require.NoError(t, repos.Levels.Save(ctx, &entity.StockLevel{ProductID: 3, WarehouseID: 1, Quantity: 1000}))

	list, err := uc.ReplenishmentList(ctx, 0)
	require.NoError(t, err)

	ids := make([]int64, 0, len(list))
	for _, it := range list {
		ids = append(ids, it.ProductID)
	}
	assert.Equal(t, []int64{1}, ids)
	require.NotEmpty(t, list)
	assert.Equal(t, int64(1), list[0].ProductID)
	assert.Equal(t, 1, list[0].Priority)
	require.NotNil(t, list[0].DaysOfCover)
	assert.InDelta(t, 2.0, *list[0].DaysOfCover, 1e-9)
	assert.True(t, list[0].EstimatedOrderCost.Equal(decimal.NewFromInt(10).Mul(decimal.NewFromInt(list[0].SuggestedOrderQty))))
}

func TestReplenishmentList_BodegaDesconocida(t *testing.T) {
	_, uc := reorderFixture(t, nil)
	_, err := uc.ReplenishmentList(context.Background(), 77)
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
}
