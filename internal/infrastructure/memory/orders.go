package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// PurchaseOrderRepository órdenes de compra con sus ítems.
type PurchaseOrderRepository struct {
	s  *Store
	tx *txState
}

var orderOrder = map[string]func(a, b *entity.PurchaseOrder) int{
	"orderNumber": func(a, b *entity.PurchaseOrder) int { return strings.Compare(a.OrderNumber, b.OrderNumber) },
	"status":      func(a, b *entity.PurchaseOrder) int { return strings.Compare(string(a.Status), string(b.Status)) },
	"totalAmount": func(a, b *entity.PurchaseOrder) int { return a.TotalAmount.Cmp(b.TotalAmount) },
	"createdAt":   func(a, b *entity.PurchaseOrder) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

func (r *PurchaseOrderRepository) NextOrderSequence(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orderNumberSeq++
	return r.s.orderNumberSeq, nil
}

// Create asigna ids a la orden y sus ítems. Dentro de una unidad la orden se publica al confirmar.
func (r *PurchaseOrderRepository) Create(_ context.Context, o *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.orders {
		if e.OrderNumber == o.OrderNumber {
			return domain.ErrDuplicate
		}
	}
	if _, ok := r.s.suppliers[o.SupplierID]; !ok {
		return domain.UnknownReference("proveedor", o.SupplierID)
	}
	if _, ok := r.s.warehouses[o.WarehouseID]; !ok {
		return domain.UnknownReference("bodega", o.WarehouseID)
	}
	for i := range o.Items {
		if _, ok := r.s.products[o.Items[i].ProductID]; !ok {
			return domain.UnknownReference("producto", o.Items[i].ProductID)
		}
	}
	r.s.orderSeq++
	o.ID = r.s.orderSeq
	for i := range o.Items {
		r.s.orderItemSeq++
		o.Items[i].ID = r.s.orderItemSeq
	}
	if r.tx != nil {
		r.tx.orders[o.ID] = o.Clone()
		return nil
	}
	r.s.orders[o.ID] = o.Clone()
	return nil
}

func (r *PurchaseOrderRepository) GetByID(_ context.Context, id int64) (*entity.PurchaseOrder, error) {
	if r.tx != nil {
		if o, ok := r.tx.orders[id]; ok {
			return o.Clone(), nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if o, ok := r.s.orders[id]; ok {
		return o.Clone(), nil
	}
	return nil, nil
}

func (r *PurchaseOrderRepository) GetForUpdate(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	if r.tx == nil {
		return nil, errNoUnit
	}
	if err := r.tx.lock(ctx, orderLockKey(id)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *PurchaseOrderRepository) Update(_ context.Context, o *entity.PurchaseOrder) error {
	if r.tx != nil {
		r.tx.orders[o.ID] = o.Clone()
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.orders[o.ID] = o.Clone()
	return nil
}

func (r *PurchaseOrderRepository) List(_ context.Context, status *entity.OrderStatus, q repository.ListQuery) ([]*entity.PurchaseOrder, int64, error) {
	r.s.mu.RLock()
	out := make([]*entity.PurchaseOrder, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		if status != nil && o.Status != *status {
			continue
		}
		out = append(out, o.Clone())
	}
	r.s.mu.RUnlock()
	sortBy(out, q, orderOrder, func(o *entity.PurchaseOrder) int64 { return o.ID })
	return paginate(out, q), int64(len(out)), nil
}

func (r *PurchaseOrderRepository) CountByStatus(_ context.Context, statuses ...entity.OrderStatus) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, o := range r.s.orders {
		for _, st := range statuses {
			if o.Status == st {
				n++
				break
			}
		}
	}
	return n, nil
}
