package inventory

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// catalogCache resuelve productos y bodegas una sola vez por petición.
type catalogCache struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	products      map[int64]*entity.Product
	warehouses    map[int64]*entity.Warehouse
}

func newCatalogCache(p repository.ProductRepository, w repository.WarehouseRepository) *catalogCache {
	return &catalogCache{
		productRepo:   p,
		warehouseRepo: w,
		products:      make(map[int64]*entity.Product),
		warehouses:    make(map[int64]*entity.Warehouse),
	}
}

func (c *catalogCache) product(ctx context.Context, id int64) (*entity.Product, error) {
	if p, ok := c.products[id]; ok {
		return p, nil
	}
	p, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.products[id] = p
	return p, nil
}

func (c *catalogCache) warehouse(ctx context.Context, id int64) (*entity.Warehouse, error) {
	if w, ok := c.warehouses[id]; ok {
		return w, nil
	}
	w, err := c.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.warehouses[id] = w
	return w, nil
}

func (c *catalogCache) levelResponse(ctx context.Context, l *entity.StockLevel) (dto.StockLevelResponse, error) {
	p, err := c.product(ctx, l.ProductID)
	if err != nil {
		return dto.StockLevelResponse{}, err
	}
	w, err := c.warehouse(ctx, l.WarehouseID)
	if err != nil {
		return dto.StockLevelResponse{}, err
	}
	return toStockLevelResponse(l, p, w), nil
}

func (c *catalogCache) levelResponses(ctx context.Context, levels []*entity.StockLevel) ([]dto.StockLevelResponse, error) {
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		r, err := c.levelResponse(ctx, l)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func toStockLevelResponse(l *entity.StockLevel, p *entity.Product, w *entity.Warehouse) dto.StockLevelResponse {
	r := dto.StockLevelResponse{
		ID:          l.ID,
		ProductID:   l.ProductID,
		WarehouseID: l.WarehouseID,
		Quantity:    l.Quantity,
		MinQuantity: l.MinQuantity,
		MaxQuantity: l.MaxQuantity,
		LastUpdated: l.LastUpdated,
	}
	if p != nil {
		r.ProductName = p.Name
		r.ProductSku = p.SKU
	}
	if w != nil {
		r.WarehouseName = w.Name
	}
	return r
}

func toMovementResponse(m *entity.StockMovement, p *entity.Product, w *entity.Warehouse) dto.StockMovementResponse {
	r := dto.StockMovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		WarehouseID:   m.WarehouseID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		Reference:     m.Reference,
		Notes:         m.Notes,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
	if p != nil {
		r.ProductName = p.Name
	}
	if w != nil {
		r.WarehouseName = w.Name
	}
	return r
}
