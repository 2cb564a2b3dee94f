package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = `id, name, contact_name, email, phone, address, active, created_at, updated_at`

var supplierSortColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"createdAt": "created_at",
}

// SupplierRepo proveedores sobre PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO suppliers (name, contact_name, email, phone, address, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		s.Name, s.ContactName, s.Email, s.Phone, s.Address, s.Active, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	return wrap("insert supplier", err)
}

func (r *SupplierRepo) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get supplier", err)
	}
	return s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		UPDATE suppliers SET name = $2, contact_name = $3, email = $4, phone = $5, address = $6,
			active = $7, updated_at = $8
		WHERE id = $1`,
		s.ID, s.Name, s.ContactName, s.Email, s.Phone, s.Address, s.Active, s.UpdatedAt,
	)
	return wrap("update supplier", err)
}

func (r *SupplierRepo) List(ctx context.Context, activeOnly bool, q repository.ListQuery) ([]*entity.Supplier, int64, error) {
	where := ""
	if activeOnly {
		where = " WHERE active"
	}
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM suppliers`+where).Scan(&total); err != nil {
		return nil, 0, wrap("count suppliers", err)
	}
	limit, args := limitClause(q.Limit, q.Offset, nil)
	rows, err := r.q.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers`+where+
		orderClause(q.SortField, q.SortDesc, supplierSortColumns, "id")+limit, args...)
	if err != nil {
		return nil, 0, wrap("list suppliers", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Supplier, error) {
		return scanSupplier(row)
	})
	return list, total, wrap("list suppliers", err)
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.ContactName, &s.Email, &s.Phone, &s.Address,
		&s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
