package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

const warehouseColumns = `id, code, name, address, capacity, active, created_at, updated_at`

var warehouseSortColumns = map[string]string{
	"id":        "id",
	"code":      "code",
	"name":      "name",
	"createdAt": "created_at",
}

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste una nueva bodega. Código repetido devuelve domain.ErrDuplicate.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO warehouses (code, name, address, capacity, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		w.Code, w.Name, w.Address, w.Capacity, w.Active, w.CreatedAt, w.UpdatedAt,
	).Scan(&w.ID)
	return wrap("insert warehouse", err)
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id int64) (*entity.Warehouse, error) {
	return r.getOne(ctx, "get warehouse", `WHERE id = $1`, id)
}

// GetByCode obtiene una bodega por código.
func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (*entity.Warehouse, error) {
	return r.getOne(ctx, "get warehouse by code", `WHERE code = $1`, code)
}

func (r *WarehouseRepo) getOne(ctx context.Context, op, where string, arg any) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses `+where, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(op, err)
	}
	return w, nil
}

// Update actualiza nombre, dirección, capacidad y estado. El código es inmutable.
func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	_, err := r.q.Exec(ctx, `
		UPDATE warehouses SET name = $2, address = $3, capacity = $4, active = $5, updated_at = $6
		WHERE id = $1`,
		w.ID, w.Name, w.Address, w.Capacity, w.Active, w.UpdatedAt,
	)
	return wrap("update warehouse", err)
}

// List bodegas paginadas.
func (r *WarehouseRepo) List(ctx context.Context, activeOnly bool, q repository.ListQuery) ([]*entity.Warehouse, int64, error) {
	where := ""
	if activeOnly {
		where = " WHERE active"
	}
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM warehouses`+where).Scan(&total); err != nil {
		return nil, 0, wrap("count warehouses", err)
	}
	limit, args := limitClause(q.Limit, q.Offset, nil)
	rows, err := r.q.Query(ctx, `SELECT `+warehouseColumns+` FROM warehouses`+where+
		orderClause(q.SortField, q.SortDesc, warehouseSortColumns, "id")+limit, args...)
	if err != nil {
		return nil, 0, wrap("list warehouses", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Warehouse, error) {
		return scanWarehouse(row)
	})
	return list, total, wrap("list warehouses", err)
}

func (r *WarehouseRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM warehouses WHERE active`).Scan(&n)
	return n, wrap("count active warehouses", err)
}

func scanWarehouse(row pgx.Row) (*entity.Warehouse, error) {
	var w entity.Warehouse
	if err := row.Scan(&w.ID, &w.Code, &w.Name, &w.Address, &w.Capacity, &w.Active, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
