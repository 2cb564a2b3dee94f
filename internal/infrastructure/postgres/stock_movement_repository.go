package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, COALESCE(transaction_id, ''), product_id, warehouse_id, type, quantity, reference, notes, created_by, created_at`

// StockMovementRepo libro de movimientos sobre PostgreSQL (solo INSERT, nunca UPDATE/DELETE).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append inserta el movimiento y asigna su número de secuencia (id).
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	if !m.Type.Valid() {
		return domain.InvalidArgument("tipo de movimiento desconocido %q", m.Type)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	var txID *string
	if m.TransactionID != "" {
		txID = &m.TransactionID
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_movements (transaction_id, product_id, warehouse_id, type, quantity, reference, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		txID, m.ProductID, m.WarehouseID, string(m.Type), m.Quantity, m.Reference, m.Notes, m.CreatedBy, m.CreatedAt,
	).Scan(&m.ID)
	return wrap("append stock movement", err)
}

// ListByProduct movimientos del producto en [from, to) por secuencia.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID int64, from, to time.Time) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM stock_movements
		WHERE product_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY id`, productID, from, to)
	if err != nil {
		return nil, wrap("list movements by product", err)
	}
	return collectMovements(rows)
}

// List página del libro, más reciente primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter, q repository.ListQuery) ([]*entity.StockMovement, int64, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != nil {
		add("product_id = $%d", *f.ProductID)
	}
	if f.WarehouseID != nil {
		add("warehouse_id = $%d", *f.WarehouseID)
	}
	if f.Type != nil {
		add("type = $%d", string(*f.Type))
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at < $%d", *f.To)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_movements`+where, args...).Scan(&total); err != nil {
		return nil, 0, wrap("count movements", err)
	}
	limit, args := limitClause(q.Limit, q.Offset, args)
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM stock_movements`+where+` ORDER BY id DESC`+limit, args...)
	if err != nil {
		return nil, 0, wrap("list movements", err)
	}
	list, err := collectMovements(rows)
	return list, total, err
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m   entity.StockMovement
			typ string
		)
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ProductID, &m.WarehouseID, &typ, &m.Quantity,
			&m.Reference, &m.Notes, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, wrap("scan stock movement", err)
		}
		m.Type = entity.MovementType(typ)
		list = append(list, &m)
	}
	return list, wrap("list movements", rows.Err())
}
