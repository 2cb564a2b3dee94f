package inventory

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

const (
	replenishmentPageSize    = 200
	replenishmentConcurrency = 8
	// coverHorizonDays días proyectados para estimar la demanda diaria.
	coverHorizonDays = 30
)

// ReplenishmentList productos activos cuyo stock (en la bodega o global si warehouseID es 0)
// está en o bajo su punto de reorden, con la cantidad sugerida y los días de cobertura.
// Ordena por menor cobertura primero; prioridad 1 = más urgente.
func (uc *ReorderUseCase) ReplenishmentList(ctx context.Context, warehouseID int64) ([]dto.ReplenishmentSuggestionDTO, error) {
	ctx, span := tracer.Start(ctx, "Reorder.ReplenishmentList")
	defer span.End()

	if warehouseID != 0 {
		w, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, domain.UnknownReference("bodega", warehouseID)
		}
	}

	products, err := uc.activeProducts(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.ReplenishmentSuggestionDTO, len(products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(replenishmentConcurrency)
	for i, p := range products {
		g.Go(func() error {
			item, err := uc.evaluate(gctx, p, warehouseID)
			if err != nil {
				return err
			}
			results[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.DaysOfCover != nil && b.DaysOfCover != nil && *a.DaysOfCover != *b.DaysOfCover:
			return *a.DaysOfCover < *b.DaysOfCover
		case a.DaysOfCover != nil && b.DaysOfCover == nil:
			return true
		case a.DaysOfCover == nil && b.DaysOfCover != nil:
			return false
		}
		// Empate: mayor déficit bajo el reorden primero.
		defA, defB := a.ReorderPoint-a.CurrentStock, b.ReorderPoint-b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		return a.ProductID < b.ProductID
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}

// evaluate devuelve nil si el producto no necesita reposición.
func (uc *ReorderUseCase) evaluate(ctx context.Context, p *entity.Product, warehouseID int64) (*dto.ReplenishmentSuggestionDTO, error) {
	s, _, err := uc.compute(ctx, p)
	if err != nil {
		return nil, err
	}
	onHand, err := uc.onHand(ctx, p.ID, warehouseID)
	if err != nil {
		return nil, err
	}
	threshold := max(s.ReorderPoint, p.ReorderPoint)
	if onHand > threshold {
		return nil, nil
	}

	qty := max(s.ReorderQuantity, threshold-onHand)
	daily := s.AverageDailyDemand
	if uc.projector != nil {
		projected, ok, err := uc.projector.ProjectDailyDemand(ctx, p.ID, coverHorizonDays)
		if err != nil {
			return nil, err
		}
		if ok {
			daily = projected
		}
	}
	item := &dto.ReplenishmentSuggestionDTO{
		ProductID:          p.ID,
		SKU:                p.SKU,
		ProductName:        p.Name,
		CurrentStock:       onHand,
		ReorderPoint:       threshold,
		SuggestedOrderQty:  qty,
		UnitPrice:          p.UnitPrice,
		EstimatedOrderCost: holdDecimal(qty, p.UnitPrice),
		ProjectedDailyUse:  daily,
	}
	if daily > 0 {
		cover := float64(onHand) / daily
		item.DaysOfCover = &cover
	}
	return item, nil
}

func (uc *ReorderUseCase) onHand(ctx context.Context, productID, warehouseID int64) (int64, error) {
	if warehouseID != 0 {
		l, err := uc.levelRepo.Get(ctx, productID, warehouseID)
		if err != nil || l == nil {
			return 0, err
		}
		return l.Quantity, nil
	}
	levels, err := uc.levelRepo.ListByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, l := range levels {
		total += l.Quantity
	}
	return total, nil
}

func (uc *ReorderUseCase) activeProducts(ctx context.Context) ([]*entity.Product, error) {
	var all []*entity.Product
	for offset := 0; ; offset += replenishmentPageSize {
		page, total, err := uc.productRepo.List(ctx,
			repository.ProductFilter{ActiveOnly: true},
			repository.ListQuery{Offset: offset, Limit: replenishmentPageSize, SortField: "id"})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) == 0 || int64(len(all)) >= total {
			return all, nil
		}
	}
}
