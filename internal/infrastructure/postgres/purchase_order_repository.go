package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const orderColumns = `id, order_number, supplier_id, warehouse_id, status, total_amount, created_by, created_at, updated_at, received_at`

var orderSortColumns = map[string]string{
	"id":          "id",
	"orderNumber": "order_number",
	"status":      "status",
	"totalAmount": "total_amount",
	"createdAt":   "created_at",
}

// PurchaseOrderRepo órdenes de compra e ítems sobre PostgreSQL.
// GetForUpdate solo funciona dentro de una transacción del TxRunner.
type PurchaseOrderRepo struct {
	q    Querier
	inTx bool
}

// NewPurchaseOrderRepository adaptador fuera de transacción (lecturas y altas).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

func newTxPurchaseOrderRepository(tx pgx.Tx) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: tx, inTx: true}
}

// NextOrderSequence siguiente valor de purchase_order_number_seq.
func (r *PurchaseOrderRepo) NextOrderSequence(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT nextval('purchase_order_number_seq')`).Scan(&n)
	return n, wrap("next order sequence", err)
}

// Create inserta cabecera e ítems. Fuera de una tx abre la suya para que ambos queden juntos.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	if r.inTx {
		return r.create(ctx, r.q, o)
	}
	b, ok := r.q.(interface {
		Begin(ctx context.Context) (pgx.Tx, error)
	})
	if !ok {
		return r.create(ctx, r.q, o)
	}
	return pgx.BeginFunc(ctx, b, func(tx pgx.Tx) error {
		return r.create(ctx, tx, o)
	})
}

func (r *PurchaseOrderRepo) create(ctx context.Context, q Querier, o *entity.PurchaseOrder) error {
	err := q.QueryRow(ctx, `
		INSERT INTO purchase_orders (order_number, supplier_id, warehouse_id, status, total_amount, created_by, created_at, updated_at, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		o.OrderNumber, o.SupplierID, o.WarehouseID, string(o.Status), o.TotalAmount, o.CreatedBy,
		o.CreatedAt, o.UpdatedAt, o.ReceivedAt,
	).Scan(&o.ID)
	if err != nil {
		return wrap("insert purchase order", err)
	}
	for i := range o.Items {
		it := &o.Items[i]
		err := q.QueryRow(ctx, `
			INSERT INTO purchase_order_items (order_id, product_id, quantity, unit_price, received_quantity)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			o.ID, it.ProductID, it.Quantity, it.UnitPrice, it.ReceivedQuantity,
		).Scan(&it.ID)
		if err != nil {
			return wrap("insert purchase order item", err)
		}
	}
	return nil
}

// GetByID orden con sus ítems; (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate bloquea la fila de la orden (FOR UPDATE) hasta el fin de la transacción.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	if !r.inTx {
		return nil, errors.New("get purchase order for update: se requiere una transacción")
	}
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *PurchaseOrderRepo) get(ctx context.Context, id int64, lock string) (*entity.PurchaseOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`+lock, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get purchase order", err)
	}
	if err := r.loadItems(ctx, []*entity.PurchaseOrder{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// Update persiste estado, fechas y cantidades recibidas. Los ítems no se agregan ni se quitan.
func (r *PurchaseOrderRepo) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET status = $2, total_amount = $3, updated_at = $4, received_at = $5
		WHERE id = $1`,
		o.ID, string(o.Status), o.TotalAmount, o.UpdatedAt, o.ReceivedAt,
	)
	if err != nil {
		return wrap("update purchase order", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update purchase order %d: fila inexistente", o.ID)
	}
	for _, it := range o.Items {
		if _, err := r.q.Exec(ctx,
			`UPDATE purchase_order_items SET received_quantity = $2 WHERE id = $1`,
			it.ID, it.ReceivedQuantity,
		); err != nil {
			return wrap("update purchase order item", err)
		}
	}
	return nil
}

// List órdenes paginadas con sus ítems, filtrando opcionalmente por estado.
func (r *PurchaseOrderRepo) List(ctx context.Context, status *entity.OrderStatus, q repository.ListQuery) ([]*entity.PurchaseOrder, int64, error) {
	where := ""
	var args []any
	if status != nil {
		args = append(args, string(*status))
		where = " WHERE status = $1"
	}
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM purchase_orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, wrap("count purchase orders", err)
	}
	limit, args := limitClause(q.Limit, q.Offset, args)
	rows, err := r.q.Query(ctx, `SELECT `+orderColumns+` FROM purchase_orders`+where+
		orderClause(q.SortField, q.SortDesc, orderSortColumns, "id")+limit, args...)
	if err != nil {
		return nil, 0, wrap("list purchase orders", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.PurchaseOrder, error) {
		return scanOrder(row)
	})
	if err != nil {
		return nil, 0, wrap("list purchase orders", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *PurchaseOrderRepo) CountByStatus(ctx context.Context, statuses ...entity.OrderStatus) (int64, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	var n int64
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM purchase_orders WHERE status = ANY($1)`, names).Scan(&n)
	return n, wrap("count purchase orders by status", err)
}

// loadItems carga los ítems de varias órdenes en una sola consulta.
func (r *PurchaseOrderRepo) loadItems(ctx context.Context, orders []*entity.PurchaseOrder) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	byID := make(map[int64]*entity.PurchaseOrder, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, received_quantity
		FROM purchase_order_items WHERE order_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return wrap("list purchase order items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			it      entity.PurchaseOrderItem
			orderID int64
		)
		if err := rows.Scan(&it.ID, &orderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.ReceivedQuantity); err != nil {
			return wrap("scan purchase order item", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return wrap("list purchase order items", rows.Err())
}

func scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var (
		o      entity.PurchaseOrder
		status string
	)
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.SupplierID, &o.WarehouseID, &status, &o.TotalAmount,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt, &o.ReceivedAt); err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}
