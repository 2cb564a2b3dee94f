package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

func seed(t *testing.T) (*Store, Repositories) {
	t.Helper()
	s := NewStore()
	repos := s.Repositories()
	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{SKU: "A-1", Name: "Tornillo", UnitPrice: decimal.NewFromInt(2), Active: true}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{Code: "BOG", Name: "Bogotá", Active: true}))
	return s, repos
}

func TestTxRunner_ConfirmaNivelYMovimientoJuntos(t *testing.T) {
	s, repos := seed(t)
	ctx := context.Background()

	err := NewTxRunner(s).Run(ctx, func(movRepo repository.StockMovementRepository, stockRepo repository.StockLevelRepository) error {
		l, err := stockRepo.GetForUpdate(ctx, 1, 1)
		if err != nil {
			return err
		}
		l.Quantity = 10
		if err := stockRepo.Save(ctx, l); err != nil {
			return err
		}
		return movRepo.Append(ctx, &entity.StockMovement{ProductID: 1, WarehouseID: 1, Type: entity.MovementTypeIN, Quantity: 10, CreatedAt: time.Now()})
	})
	require.NoError(t, err)

	l, err := repos.Levels.Get(ctx, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, int64(10), l.Quantity)
	assert.NotZero(t, l.ID)

	movs, total, err := repos.Movements.List(ctx, repository.MovementFilter{}, repository.ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(1), movs[0].ID)
}

func TestTxRunner_ErrorDescartaLaUnidad(t *testing.T) {
	s, repos := seed(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := NewTxRunner(s).Run(ctx, func(movRepo repository.StockMovementRepository, stockRepo repository.StockLevelRepository) error {
		l, err := stockRepo.GetForUpdate(ctx, 1, 1)
		if err != nil {
			return err
		}
		l.Quantity = 5
		_ = stockRepo.Save(ctx, l)
		_ = movRepo.Append(ctx, &entity.StockMovement{ProductID: 1, WarehouseID: 1, Type: entity.MovementTypeIN, Quantity: 5})
		return boom
	})
	require.ErrorIs(t, err, boom)

	l, err := repos.Levels.Get(ctx, 1, 1)
	require.NoError(t, err)
	assert.Nil(t, l)
	_, total, _ := repos.Movements.List(ctx, repository.MovementFilter{}, repository.ListQuery{})
	assert.Zero(t, total)
}

func TestGetForUpdate_BloqueaHastaElFinDeLaUnidad(t *testing.T) {
	s, _ := seed(t)
	ctx := context.Background()
	runner := NewTxRunner(s)

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, func(_ repository.StockMovementRepository, stockRepo repository.StockLevelRepository) error {
			if _, err := stockRepo.GetForUpdate(ctx, 1, 1); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := runner.Run(waitCtx, func(_ repository.StockMovementRepository, stockRepo repository.StockLevelRepository) error {
		_, err := stockRepo.GetForUpdate(waitCtx, 1, 1)
		return err
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)

	err = runner.Run(ctx, func(_ repository.StockMovementRepository, stockRepo repository.StockLevelRepository) error {
		_, err := stockRepo.GetForUpdate(ctx, 1, 1)
		return err
	})
	assert.NoError(t, err)
}

func TestGetForUpdate_ReferenciaDesconocida(t *testing.T) {
	s, _ := seed(t)
	ctx := context.Background()
	err := NewTxRunner(s).Run(ctx, func(_ repository.StockMovementRepository, stockRepo repository.StockLevelRepository) error {
		_, err := stockRepo.GetForUpdate(ctx, 1, 99)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
}

func TestGetForUpdate_FueraDeUnidad(t *testing.T) {
	_, repos := seed(t)
	_, err := repos.Levels.GetForUpdate(context.Background(), 1, 1)
	assert.Error(t, err)
}

func TestProductRepository_ListFiltraOrdenaYPagina(t *testing.T) {
	_, repos := seed(t)
	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{SKU: "B-1", Name: "Arandela", UnitPrice: decimal.NewFromInt(1), Active: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{SKU: "C-1", Name: "Tuerca", UnitPrice: decimal.NewFromInt(3), Active: false}))

	list, total, err := repos.Products.List(ctx, repository.ProductFilter{ActiveOnly: true}, repository.ListQuery{SortField: "name", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Arandela", list[0].Name)

	list, _, err = repos.Products.List(ctx, repository.ProductFilter{SKU: "c-"}, repository.ListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Tuerca", list[0].Name)

	err = repos.Products.Create(ctx, &entity.Product{SKU: "A-1", Name: "Repetido"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestPurchaseOrderRepository_SecuenciaEmpiezaEn1000(t *testing.T) {
	_, repos := seed(t)
	ctx := context.Background()
	n, err := repos.Orders.NextOrderSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), n)
	n, _ = repos.Orders.NextOrderSequence(ctx)
	assert.Equal(t, int64(1001), n)
}

func TestAnalytics_TopMoversYTotalesDiarios(t *testing.T) {
	_, repos := seed(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	for _, m := range []*entity.StockMovement{
		{ProductID: 1, WarehouseID: 1, Type: entity.MovementTypeIN, Quantity: 10, CreatedAt: day},
		{ProductID: 1, WarehouseID: 1, Type: entity.MovementTypeOUT, Quantity: -4, CreatedAt: day.Add(time.Hour)},
		{ProductID: 1, WarehouseID: 1, Type: entity.MovementTypeTRANSFER, Quantity: -1, CreatedAt: day.AddDate(0, 0, 1)},
	} {
		require.NoError(t, repos.Movements.Append(ctx, m))
	}
	from, to := day.AddDate(0, 0, -1), day.AddDate(0, 0, 5)

	top, err := repos.Analytics.TopMovers(ctx, from, to, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(10), top[0].TotalIn)
	assert.Equal(t, int64(5), top[0].TotalOut)

	daily, err := repos.Analytics.DailyTotals(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, int64(10), daily[0].TotalIn)
	assert.Equal(t, int64(4), daily[0].TotalOut)
}
