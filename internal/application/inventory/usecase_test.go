package inventory_test

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
	"github.com/jhoicas/inventory-core/internal/infrastructure/memory"
)

const actor = "bodeguero"

type fixture struct {
	repos  memory.Repositories
	ledger *inventory.StockLedgerUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{SKU: "P-1", Name: "Martillo", UnitPrice: decimal.NewFromInt(5), Active: true}))
	for _, code := range []string{"A", "B"} {
		require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{Code: code, Name: "Bodega " + code, Active: true}))
	}
	ledger := inventory.NewStockLedgerUseCase(memory.NewTxRunner(store), repos.Products, repos.Warehouses, repos.Levels, repos.Movements, nil)
	return &fixture{repos: repos, ledger: ledger}
}

func (f *fixture) adjust(t *testing.T, wh, qty int64, typ entity.MovementType) (*dto.StockLevelResponse, error) {
	t.Helper()
	return f.ledger.Adjust(context.Background(), actor, inventory.AdjustInput{ProductID: 1, WarehouseID: wh, Quantity: qty, Type: typ})
}

func (f *fixture) quantity(t *testing.T, wh int64) int64 {
	t.Helper()
	l, err := f.repos.Levels.Get(context.Background(), 1, wh)
	require.NoError(t, err)
	if l == nil {
		return 0
	}
	return l.Quantity
}

// movementSum suma con signo de los movimientos confirmados de la llave.
func (f *fixture) movementSum(t *testing.T, wh int64) int64 {
	t.Helper()
	pid := int64(1)
	movs, _, err := f.repos.Movements.List(context.Background(), repository.MovementFilter{ProductID: &pid, WarehouseID: &wh}, repository.ListQuery{})
	require.NoError(t, err)
	var sum int64
	for _, m := range movs {
		sum += m.Quantity
	}
	return sum
}

func TestAdjust_EntradaYSalida(t *testing.T) {
	f := newFixture(t)

	lvl, err := f.adjust(t, 1, 10, entity.MovementTypeIN)
	require.NoError(t, err)
	assert.Equal(t, int64(10), lvl.Quantity)
	assert.Equal(t, "Martillo", lvl.ProductName)
	assert.Equal(t, "Bodega A", lvl.WarehouseName)

	lvl, err = f.adjust(t, 1, 4, entity.MovementTypeOUT)
	require.NoError(t, err)
	assert.Equal(t, int64(6), lvl.Quantity)

	lvl, err = f.adjust(t, 1, -2, entity.MovementTypeADJUSTMENT)
	require.NoError(t, err)
	assert.Equal(t, int64(4), lvl.Quantity)
	assert.Equal(t, f.quantity(t, 1), f.movementSum(t, 1))
}

func TestAdjust_SalidaSinStockNoModificaNada(t *testing.T) {
	f := newFixture(t)
	_, err := f.adjust(t, 1, 3, entity.MovementTypeIN)
	require.NoError(t, err)

	_, err = f.adjust(t, 1, -5, entity.MovementTypeOUT)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var detail *domain.InsufficientStockError
	require.ErrorAs(t, err, &detail)
	assert.Equal(t, int64(3), detail.Available)
	assert.Equal(t, int64(5), detail.Requested)

	assert.Equal(t, int64(3), f.quantity(t, 1))
	assert.Equal(t, int64(3), f.movementSum(t, 1))
}

func TestAdjust_ValidaEntrada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   inventory.AdjustInput
		want error
	}{
		{"cantidad cero", inventory.AdjustInput{ProductID: 1, WarehouseID: 1, Quantity: 0, Type: entity.MovementTypeIN}, domain.ErrInvalidArgument},
		{"entrada negativa", inventory.AdjustInput{ProductID: 1, WarehouseID: 1, Quantity: -1, Type: entity.MovementTypeIN}, domain.ErrInvalidArgument},
		{"traslado por ajuste", inventory.AdjustInput{ProductID: 1, WarehouseID: 1, Quantity: 1, Type: entity.MovementTypeTRANSFER}, domain.ErrInvalidArgument},
		{"producto desconocido", inventory.AdjustInput{ProductID: 9, WarehouseID: 1, Quantity: 1, Type: entity.MovementTypeIN}, domain.ErrUnknownReference},
		{"bodega desconocida", inventory.AdjustInput{ProductID: 1, WarehouseID: 9, Quantity: 1, Type: entity.MovementTypeIN}, domain.ErrUnknownReference},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.Adjust(ctx, actor, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := f.ledger.Adjust(ctx, "", inventory.AdjustInput{ProductID: 1, WarehouseID: 1, Quantity: 1, Type: entity.MovementTypeIN})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestAdjust_CantidadesExtremas(t *testing.T) {
	f := newFixture(t)
	_, err := f.adjust(t, 1, 10, entity.MovementTypeIN)
	require.NoError(t, err)

	_, err = f.adjust(t, 1, math.MaxInt64, entity.MovementTypeIN)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)

	for _, typ := range []entity.MovementType{entity.MovementTypeOUT, entity.MovementTypeADJUSTMENT} {
		_, err = f.adjust(t, 1, math.MinInt64, typ)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, string(typ))
	}

	assert.Equal(t, int64(10), f.quantity(t, 1))
	assert.Equal(t, int64(10), f.movementSum(t, 1))

	// el tope exacto sí se acepta
	_, err = f.adjust(t, 1, math.MaxInt64-10, entity.MovementTypeIN)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), f.quantity(t, 1))
}

func TestTransfer_IdaYVueltaRestauraCantidades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.adjust(t, 1, 8, entity.MovementTypeIN)
	require.NoError(t, err)
	_, err = f.adjust(t, 2, 2, entity.MovementTypeIN)
	require.NoError(t, err)

	res, err := f.ledger.Transfer(ctx, actor, inventory.TransferInput{ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 2, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Source.Quantity)
	assert.Equal(t, int64(7), res.Destination.Quantity)

	_, err = f.ledger.Transfer(ctx, actor, inventory.TransferInput{ProductID: 1, FromWarehouseID: 2, ToWarehouseID: 1, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(8), f.quantity(t, 1))
	assert.Equal(t, int64(2), f.quantity(t, 2))
	assert.Equal(t, f.quantity(t, 1), f.movementSum(t, 1))
	assert.Equal(t, f.quantity(t, 2), f.movementSum(t, 2))
}

func TestTransfer_PatasEnlazadas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.adjust(t, 1, 4, entity.MovementTypeIN)
	require.NoError(t, err)

	res, err := f.ledger.Transfer(ctx, actor, inventory.TransferInput{ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 2, Quantity: 4})
	require.NoError(t, err)

	typ := entity.MovementTypeTRANSFER
	movs, _, err := f.repos.Movements.List(ctx, repository.MovementFilter{Type: &typ}, repository.ListQuery{})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	// más reciente primero: la entrada al destino va después de la salida
	assert.Equal(t, int64(4), movs[0].Quantity)
	assert.Equal(t, "Transfer from A", movs[0].Notes)
	assert.Equal(t, int64(-4), movs[1].Quantity)
	assert.Equal(t, "Transfer to B", movs[1].Notes)
	for _, m := range movs {
		assert.Equal(t, res.TransactionID, m.TransactionID)
		assert.Equal(t, "TRANSFER-"+res.TransactionID, m.Reference)
		assert.Equal(t, actor, m.CreatedBy)
	}
	assert.Greater(t, movs[0].ID, movs[1].ID)
}

func TestTransfer_Rechazos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.adjust(t, 1, 2, entity.MovementTypeIN)
	require.NoError(t, err)

	_, err = f.ledger.Transfer(ctx, actor, inventory.TransferInput{ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 1, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.ledger.Transfer(ctx, actor, inventory.TransferInput{ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 2, Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(2), f.quantity(t, 1))
	assert.Equal(t, int64(0), f.quantity(t, 2))
	assert.Equal(t, int64(0), f.movementSum(t, 2))
}

func TestAdjust_ConcurrenteNuncaQuedaNegativo(t *testing.T) {
	f := newFixture(t)
	_, err := f.adjust(t, 1, 50, entity.MovementTypeIN)
	require.NoError(t, err)

	var ok, rejected atomic.Int64
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.adjust(t, 1, 1, entity.MovementTypeOUT)
			switch {
			case err == nil:
				ok.Add(1)
			case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), ok.Load())
	assert.Equal(t, int64(50), rejected.Load())
	assert.Equal(t, int64(0), f.quantity(t, 1))
	assert.Equal(t, int64(0), f.movementSum(t, 1))
}

func TestTransfer_OpuestosConcurrentesNoSeBloquean(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := f.adjust(t, 1, 100, entity.MovementTypeIN)
	require.NoError(t, err)
	_, err = f.adjust(t, 2, 100, entity.MovementTypeIN)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			from, to := int64(1), int64(2)
			if i%2 == 1 {
				from, to = to, from
			}
			_, err := f.ledger.Transfer(ctx, actor, inventory.TransferInput{ProductID: 1, FromWarehouseID: from, ToWarehouseID: to, Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.NoError(t, ctx.Err())
	assert.Equal(t, int64(100), f.quantity(t, 1))
	assert.Equal(t, int64(100), f.quantity(t, 2))
	assert.Equal(t, f.quantity(t, 1), f.movementSum(t, 1))
}

func TestLowStockAlerts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	five := int64(5)

	_, err := f.adjust(t, 1, 2, entity.MovementTypeIN)
	require.NoError(t, err)
	_, err = f.adjust(t, 2, 10, entity.MovementTypeIN)
	require.NoError(t, err)
	for _, wh := range []int64{1, 2} {
		_, err := f.ledger.SetThresholds(ctx, actor, inventory.ThresholdsInput{ProductID: 1, WarehouseID: wh, MinQuantity: &five})
		require.NoError(t, err)
	}

	alerts, err := f.ledger.LowStockAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, int64(1), alerts[0].WarehouseID)
	assert.Equal(t, int64(2), alerts[0].CurrentQuantity)
	assert.Equal(t, int64(5), alerts[0].MinQuantity)
	assert.Equal(t, "P-1", alerts[0].SKU)
}

func TestSetThresholds_MinimoMayorQueMaximo(t *testing.T) {
	f := newFixture(t)
	lo, hi := int64(10), int64(3)
	_, err := f.ledger.SetThresholds(context.Background(), actor, inventory.ThresholdsInput{ProductID: 1, WarehouseID: 1, MinQuantity: &lo, MaxQuantity: &hi})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSetThresholds_CreaNivelEnCero(t *testing.T) {
	f := newFixture(t)
	lo := int64(1)
	lvl, err := f.ledger.SetThresholds(context.Background(), actor, inventory.ThresholdsInput{ProductID: 1, WarehouseID: 2, MinQuantity: &lo})
	require.NoError(t, err)
	assert.Equal(t, int64(0), lvl.Quantity)
	require.NotNil(t, lvl.MinQuantity)
	assert.Equal(t, int64(1), *lvl.MinQuantity)
	assert.Equal(t, int64(0), f.movementSum(t, 2))
}

func TestLevelsAndMovements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for range 3 {
		_, err := f.adjust(t, 1, 1, entity.MovementTypeIN)
		require.NoError(t, err)
	}
	_, err := f.adjust(t, 2, 1, entity.MovementTypeIN)
	require.NoError(t, err)

	byProduct, err := f.ledger.LevelsForProduct(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, byProduct, 2)

	byWarehouse, err := f.ledger.LevelsForWarehouse(ctx, 2)
	require.NoError(t, err)
	require.Len(t, byWarehouse, 1)
	assert.Equal(t, int64(1), byWarehouse[0].Quantity)

	_, err = f.ledger.LevelsForProduct(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrUnknownReference)

	page, err := f.ledger.Movements(ctx, inventory.MovementQuery{WarehouseID: 1}, dto.PageRequest{Page: 0, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.First)
	assert.False(t, page.Last)
	require.Len(t, page.Content, 2)
	assert.Greater(t, page.Content[0].ID, page.Content[1].ID)
	assert.Equal(t, "Martillo", page.Content[0].ProductName)
}

func TestLevel_SinMovimientosDevuelveCero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lvl, err := f.ledger.Level(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), lvl.Quantity)
	assert.Equal(t, "Martillo", lvl.ProductName)

	_, err = f.adjust(t, 2, 3, entity.MovementTypeIN)
	require.NoError(t, err)
	lvl, err = f.ledger.Level(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), lvl.Quantity)

	_, err = f.ledger.Level(ctx, 1, 99)
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
}
