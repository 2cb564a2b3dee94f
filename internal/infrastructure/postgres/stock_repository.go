package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

const stockLevelColumns = `id, product_id, warehouse_id, quantity, min_quantity, max_quantity, last_updated`

// StockLevelRepo niveles materializados sobre PostgreSQL (usable con pool o tx).
// GetForUpdate solo funciona dentro de una transacción del TxRunner.
type StockLevelRepo struct {
	q    Querier
	inTx bool
}

// NewStockLevelRepository construye el adaptador de lectura. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

func newTxStockLevelRepository(tx pgx.Tx) *StockLevelRepo {
	return &StockLevelRepo{q: tx, inTx: true}
}

// Get obtiene el nivel de un producto en una bodega; (nil, nil) si no existe.
func (r *StockLevelRepo) Get(ctx context.Context, productID, warehouseID int64) (*entity.StockLevel, error) {
	row := r.q.QueryRow(ctx, `SELECT `+stockLevelColumns+` FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID)
	l, err := scanStockLevel(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get stock level", err)
	}
	return l, nil
}

// GetForUpdate crea la fila en cero si falta (ON CONFLICT DO NOTHING) y la bloquea con FOR UPDATE
// hasta el fin de la transacción.
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, productID, warehouseID int64) (*entity.StockLevel, error) {
	if !r.inTx {
		return nil, errors.New("get stock level for update: se requiere una transacción")
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_levels (product_id, warehouse_id, quantity, last_updated)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`, productID, warehouseID)
	if err != nil {
		c := classify(err)
		if errors.Is(c, domain.ErrUnknownReference) {
			return nil, fmt.Errorf("%w: producto %d o bodega %d", domain.ErrUnknownReference, productID, warehouseID)
		}
		return nil, wrap("create stock level", err)
	}
	row := r.q.QueryRow(ctx, `SELECT `+stockLevelColumns+` FROM stock_levels
		WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`, productID, warehouseID)
	l, err := scanStockLevel(row)
	if err != nil {
		return nil, wrap("get stock level for update", err)
	}
	return l, nil
}

// Save persiste cantidad y umbrales. La cantidad negativa la rechaza también el CHECK de la tabla.
func (r *StockLevelRepo) Save(ctx context.Context, l *entity.StockLevel) error {
	if l.Quantity < 0 {
		return domain.InvalidArgument("cantidad negativa para %d/%d", l.ProductID, l.WarehouseID)
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_levels (product_id, warehouse_id, quantity, min_quantity, max_quantity, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id, warehouse_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			min_quantity = EXCLUDED.min_quantity,
			max_quantity = EXCLUDED.max_quantity,
			last_updated = EXCLUDED.last_updated
		RETURNING id`,
		l.ProductID, l.WarehouseID, l.Quantity, l.MinQuantity, l.MaxQuantity, l.LastUpdated,
	).Scan(&l.ID)
	return wrap("save stock level", err)
}

func (r *StockLevelRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.StockLevel, error) {
	return r.list(ctx, `WHERE product_id = $1`, productID)
}

func (r *StockLevelRepo) ListByWarehouse(ctx context.Context, warehouseID int64) ([]*entity.StockLevel, error) {
	return r.list(ctx, `WHERE warehouse_id = $1`, warehouseID)
}

func (r *StockLevelRepo) ListAll(ctx context.Context) ([]*entity.StockLevel, error) {
	return r.list(ctx, ``)
}

func (r *StockLevelRepo) ListLow(ctx context.Context) ([]*entity.StockLevel, error) {
	return r.list(ctx, `WHERE min_quantity IS NOT NULL AND quantity <= min_quantity`)
}

func (r *StockLevelRepo) list(ctx context.Context, where string, args ...any) ([]*entity.StockLevel, error) {
	rows, err := r.q.Query(ctx, `SELECT `+stockLevelColumns+` FROM stock_levels `+where+` ORDER BY warehouse_id, product_id`, args...)
	if err != nil {
		return nil, wrap("list stock levels", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		l, err := scanStockLevel(rows)
		if err != nil {
			return nil, wrap("scan stock level", err)
		}
		list = append(list, l)
	}
	return list, wrap("list stock levels", rows.Err())
}

func scanStockLevel(row pgx.Row) (*entity.StockLevel, error) {
	var l entity.StockLevel
	if err := row.Scan(&l.ID, &l.ProductID, &l.WarehouseID, &l.Quantity, &l.MinQuantity, &l.MaxQuantity, &l.LastUpdated); err != nil {
		return nil, err
	}
	return &l, nil
}
