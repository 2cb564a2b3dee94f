package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, description, category_id, unit, unit_price, reorder_point, reorder_quantity,
	lead_time_days, ordering_cost, holding_cost_rate, active, created_at, updated_at`

var productSortColumns = map[string]string{
	"id":        "id",
	"sku":       "sku",
	"name":      "lower(name)",
	"unitPrice": "unit_price",
	"createdAt": "created_at",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto y asigna su ID. SKU repetido devuelve domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO products (sku, name, description, category_id, unit, unit_price, reorder_point, reorder_quantity,
			lead_time_days, ordering_cost, holding_cost_rate, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`,
		p.SKU, p.Name, p.Description, p.CategoryID, p.Unit, p.UnitPrice, p.ReorderPoint, p.ReorderQuantity,
		p.LeadTimeDays, p.OrderingCost, p.HoldingCostRate, p.Active, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	return wrap("insert product", err)
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.getOne(ctx, "get product", `WHERE id = $1`, id)
}

// GetBySKU obtiene un producto por SKU exacto.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by sku", `WHERE sku = $1`, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, op, where string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products `+where, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(op, err)
	}
	return p, nil
}

// Update actualiza los campos editables. El SKU no se toca.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		UPDATE products SET name = $2, description = $3, category_id = $4, unit = $5, unit_price = $6,
			reorder_point = $7, reorder_quantity = $8, lead_time_days = $9, ordering_cost = $10,
			holding_cost_rate = $11, active = $12, updated_at = $13
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.CategoryID, p.Unit, p.UnitPrice, p.ReorderPoint, p.ReorderQuantity,
		p.LeadTimeDays, p.OrderingCost, p.HoldingCostRate, p.Active, p.UpdatedAt,
	)
	return wrap("update product", err)
}

// List busca con filtros por contenido (ILIKE), ordena y pagina. Devuelve también el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter, q repository.ListQuery) ([]*entity.Product, int64, error) {
	var (
		conds []string
		args  []any
	)
	if f.Name != "" {
		args = append(args, "%"+escapeLike(f.Name)+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if f.SKU != "" {
		args = append(args, "%"+escapeLike(f.SKU)+"%")
		conds = append(conds, fmt.Sprintf("sku ILIKE $%d", len(args)))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.ActiveOnly {
		conds = append(conds, "active")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, wrap("count products", err)
	}
	limit, args := limitClause(q.Limit, q.Offset, args)
	sql := `SELECT ` + productColumns + ` FROM products` + where +
		orderClause(q.SortField, q.SortDesc, productSortColumns, "id") + limit
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, wrap("list products", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, wrap("scan product", err)
		}
		list = append(list, p)
	}
	return list, total, wrap("list products", rows.Err())
}

func (r *ProductRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE active`).Scan(&n)
	return n, wrap("count active products", err)
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.CategoryID, &p.Unit, &p.UnitPrice,
		&p.ReorderPoint, &p.ReorderQuantity, &p.LeadTimeDays, &p.OrderingCost, &p.HoldingCostRate,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// escapeLike escapa los comodines de LIKE en texto del usuario.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
