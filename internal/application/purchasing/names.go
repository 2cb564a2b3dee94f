package purchasing

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// orderNames proveedor, bodega y productos resueltos para armar respuestas.
type orderNames struct {
	supplier  *entity.Supplier
	warehouse *entity.Warehouse
	products  map[int64]*entity.Product
}

func newOrderNames() *orderNames {
	return &orderNames{products: make(map[int64]*entity.Product)}
}

// resolveHeader exige proveedor y bodega existentes y activos.
func (uc *PurchaseOrderUseCase) resolveHeader(ctx context.Context, supplierID, warehouseID int64) (*orderNames, error) {
	s, err := uc.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.UnknownReference("proveedor", supplierID)
	}
	if !s.Active {
		return nil, domain.InvalidArgument("el proveedor %d está inactivo", supplierID)
	}
	w, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.UnknownReference("bodega", warehouseID)
	}
	if !w.Active {
		return nil, domain.InvalidArgument("la bodega %d está inactiva", warehouseID)
	}
	n := newOrderNames()
	n.supplier, n.warehouse = s, w
	return n, nil
}

// resolve completa los nombres de una orden ya persistida. Entidades borradas quedan sin nombre.
func (uc *PurchaseOrderUseCase) resolve(ctx context.Context, n *orderNames, o *entity.PurchaseOrder) error {
	if n.supplier == nil || n.supplier.ID != o.SupplierID {
		s, err := uc.supplierRepo.GetByID(ctx, o.SupplierID)
		if err != nil {
			return err
		}
		n.supplier = s
	}
	if n.warehouse == nil || n.warehouse.ID != o.WarehouseID {
		w, err := uc.warehouseRepo.GetByID(ctx, o.WarehouseID)
		if err != nil {
			return err
		}
		n.warehouse = w
	}
	for _, it := range o.Items {
		if _, ok := n.products[it.ProductID]; ok {
			continue
		}
		p, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return err
		}
		n.products[it.ProductID] = p
	}
	return nil
}

func (uc *PurchaseOrderUseCase) toResponse(ctx context.Context, o *entity.PurchaseOrder) (*dto.PurchaseOrderResponse, error) {
	n := newOrderNames()
	if err := uc.resolve(ctx, n, o); err != nil {
		return nil, err
	}
	return n.response(o), nil
}

func (n *orderNames) response(o *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	r := &dto.PurchaseOrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		SupplierID:  o.SupplierID,
		WarehouseID: o.WarehouseID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		CreatedBy:   o.CreatedBy,
		CreatedAt:   o.CreatedAt,
		ReceivedAt:  o.ReceivedAt,
		Items:       make([]dto.PurchaseOrderItemResponse, 0, len(o.Items)),
	}
	if n.supplier != nil {
		r.SupplierName = n.supplier.Name
	}
	if n.warehouse != nil {
		r.WarehouseName = n.warehouse.Name
	}
	for _, it := range o.Items {
		item := dto.PurchaseOrderItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			ReceivedQuantity: it.ReceivedQuantity,
		}
		if p := n.products[it.ProductID]; p != nil {
			item.ProductName, item.ProductSku = p.Name, p.SKU
		}
		r.Items = append(r.Items, item)
	}
	return r
}
