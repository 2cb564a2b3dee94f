package repository

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// OrderSortFields campos por los que se pueden ordenar las órdenes.
var OrderSortFields = []string{"id", "orderNumber", "status", "totalAmount", "createdAt"}

// PurchaseOrderRepository puerto de persistencia de órdenes de compra con sus ítems.
type PurchaseOrderRepository interface {
	// NextOrderSequence siguiente valor de la secuencia de numeración (empieza en 1000).
	NextOrderSequence(ctx context.Context) (int64, error)
	// Create persiste orden e ítems y asigna sus IDs.
	Create(ctx context.Context, o *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id int64) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la orden hasta el fin de la unidad.
	GetForUpdate(ctx context.Context, id int64) (*entity.PurchaseOrder, error)
	// Update persiste estado, fechas y cantidades recibidas de los ítems.
	Update(ctx context.Context, o *entity.PurchaseOrder) error
	List(ctx context.Context, status *entity.OrderStatus, q ListQuery) ([]*entity.PurchaseOrder, int64, error)
	CountByStatus(ctx context.Context, statuses ...entity.OrderStatus) (int64, error)
}
