package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// StockValueByWarehouse Σ cantidad × precio unitario por bodega activa. Bodegas sin stock salen en cero.
func (r *AnalyticsRepo) StockValueByWarehouse(ctx context.Context) ([]repository.WarehouseValueRow, error) {
	const query = `
	SELECT
	    w.id,
	    w.name,
	    w.code,
	    w.capacity,
	    COALESCE(SUM(sl.quantity), 0)::BIGINT             AS total_quantity,
	    COALESCE(SUM(sl.quantity * p.unit_price), 0)       AS total_value
	FROM warehouses w
	LEFT JOIN stock_levels sl ON sl.warehouse_id = w.id
	LEFT JOIN products     p  ON p.id            = sl.product_id
	WHERE w.active
	GROUP BY w.id, w.name, w.code, w.capacity
	ORDER BY w.id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, wrap("stock value by warehouse", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.WarehouseValueRow, error) {
		var v repository.WarehouseValueRow
		err := row.Scan(&v.WarehouseID, &v.WarehouseName, &v.WarehouseCode, &v.Capacity, &v.TotalQuantity, &v.TotalValue)
		return v, err
	})
	return out, wrap("stock value by warehouse", err)
}

// TopMovers productos con mayor volumen (entradas + salidas de todos los tipos) en [from, to).
func (r *AnalyticsRepo) TopMovers(ctx context.Context, from, to time.Time, limit int) ([]repository.ProductMovementRow, error) {
	const query = `
	SELECT
	    m.product_id,
	    p.name,
	    p.sku,
	    COALESCE(SUM(m.quantity) FILTER (WHERE m.quantity > 0), 0)::BIGINT  AS total_in,
	    COALESCE(-SUM(m.quantity) FILTER (WHERE m.quantity < 0), 0)::BIGINT AS total_out
	FROM stock_movements m
	JOIN products p ON p.id = m.product_id
	WHERE m.created_at >= $1 AND m.created_at < $2
	GROUP BY m.product_id, p.name, p.sku
	ORDER BY SUM(ABS(m.quantity)) DESC, m.product_id
	LIMIT $3`

	if limit <= 0 {
		limit = 10
	}
	rows, err := r.q.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, wrap("top movers", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.ProductMovementRow, error) {
		var v repository.ProductMovementRow
		err := row.Scan(&v.ProductID, &v.ProductName, &v.SKU, &v.TotalIn, &v.TotalOut)
		return v, err
	})
	return out, wrap("top movers", err)
}

// DailyTotals unidades IN y OUT por día UTC en [from, to). Días sin movimientos no aparecen.
func (r *AnalyticsRepo) DailyTotals(ctx context.Context, from, to time.Time) ([]repository.DailyMovementRow, error) {
	const query = `
	SELECT
	    date_trunc('day', m.created_at AT TIME ZONE 'UTC')                            AS day,
	    COALESCE(SUM(m.quantity) FILTER (WHERE m.type = 'IN'), 0)::BIGINT             AS total_in,
	    COALESCE(-SUM(m.quantity) FILTER (WHERE m.type = 'OUT'), 0)::BIGINT           AS total_out
	FROM stock_movements m
	WHERE m.created_at >= $1 AND m.created_at < $2
	  AND m.type IN ('IN', 'OUT')
	GROUP BY day
	ORDER BY day`

	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, wrap("daily totals", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.DailyMovementRow, error) {
		var (
			v   repository.DailyMovementRow
			day time.Time
		)
		err := row.Scan(&day, &v.TotalIn, &v.TotalOut)
		v.Date = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		return v, err
	})
	return out, wrap("daily totals", err)
}
