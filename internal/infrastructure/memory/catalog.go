package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// sortBy ordena por la función de comparación del campo pedido, desempatando por id.
func sortBy[T any](items []T, q repository.ListQuery, fields map[string]func(a, b T) int, id func(T) int64) {
	byField := fields[q.SortField]
	slices.SortStableFunc(items, func(a, b T) int {
		c := 0
		if byField != nil {
			c = byField(a, b)
		}
		if c == 0 {
			c = cmp.Compare(id(a), id(b))
		}
		if q.SortDesc {
			return -c
		}
		return c
	})
}

// ProductRepository catálogo de productos en memoria.
type ProductRepository struct {
	s *Store
}

var productOrder = map[string]func(a, b *entity.Product) int{
	"sku":       func(a, b *entity.Product) int { return strings.Compare(a.SKU, b.SKU) },
	"name":      func(a, b *entity.Product) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
	"unitPrice": func(a, b *entity.Product) int { return a.UnitPrice.Cmp(b.UnitPrice) },
	"createdAt": func(a, b *entity.Product) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.products {
		if e.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	if p.CategoryID != nil {
		if _, ok := r.s.categories[*p.CategoryID]; !ok {
			return domain.UnknownReference("categoría", *p.CategoryID)
		}
	}
	r.s.productSeq++
	p.ID = r.s.productSeq
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if p, ok := r.s.products[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *ProductRepository) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.SKU == sku {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if p.CategoryID != nil {
		if _, ok := r.s.categories[*p.CategoryID]; !ok {
			return domain.UnknownReference("categoría", *p.CategoryID)
		}
	}
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r *ProductRepository) List(_ context.Context, f repository.ProductFilter, q repository.ListQuery) ([]*entity.Product, int64, error) {
	name, sku := strings.ToLower(f.Name), strings.ToLower(f.SKU)
	r.s.mu.RLock()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		switch {
		case f.ActiveOnly && !p.Active:
			continue
		case name != "" && !strings.Contains(strings.ToLower(p.Name), name):
			continue
		case sku != "" && !strings.Contains(strings.ToLower(p.SKU), sku):
			continue
		case f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID):
			continue
		}
		c := *p
		out = append(out, &c)
	}
	r.s.mu.RUnlock()

	sortBy(out, q, productOrder, func(p *entity.Product) int64 { return p.ID })
	return paginate(out, q), int64(len(out)), nil
}

func (r *ProductRepository) CountActive(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, p := range r.s.products {
		if p.Active {
			n++
		}
	}
	return n, nil
}

// CategoryRepository categorías en memoria.
type CategoryRepository struct {
	s *Store
}

func (r *CategoryRepository) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.categories {
		if strings.EqualFold(e.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.categorySeq++
	c.ID = r.s.categorySeq
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if c, ok := r.s.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CategoryRepository) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		out = append(out, &cp)
	}
	r.s.mu.RUnlock()
	slices.SortFunc(out, func(a, b *entity.Category) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// SupplierRepository proveedores en memoria.
type SupplierRepository struct {
	s *Store
}

var supplierOrder = map[string]func(a, b *entity.Supplier) int{
	"name":      func(a, b *entity.Supplier) int { return strings.Compare(a.Name, b.Name) },
	"createdAt": func(a, b *entity.Supplier) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

func (r *SupplierRepository) Create(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.supplierSeq++
	sp.ID = r.s.supplierSeq
	c := *sp
	r.s.suppliers[sp.ID] = &c
	return nil
}

func (r *SupplierRepository) GetByID(_ context.Context, id int64) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if sp, ok := r.s.suppliers[id]; ok {
		c := *sp
		return &c, nil
	}
	return nil, nil
}

func (r *SupplierRepository) Update(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[sp.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *sp
	r.s.suppliers[sp.ID] = &c
	return nil
}

func (r *SupplierRepository) List(_ context.Context, activeOnly bool, q repository.ListQuery) ([]*entity.Supplier, int64, error) {
	r.s.mu.RLock()
	out := make([]*entity.Supplier, 0, len(r.s.suppliers))
	for _, sp := range r.s.suppliers {
		if activeOnly && !sp.Active {
			continue
		}
		c := *sp
		out = append(out, &c)
	}
	r.s.mu.RUnlock()
	sortBy(out, q, supplierOrder, func(sp *entity.Supplier) int64 { return sp.ID })
	return paginate(out, q), int64(len(out)), nil
}

// WarehouseRepository bodegas en memoria.
type WarehouseRepository struct {
	s *Store
}

var warehouseOrder = map[string]func(a, b *entity.Warehouse) int{
	"code":      func(a, b *entity.Warehouse) int { return strings.Compare(a.Code, b.Code) },
	"name":      func(a, b *entity.Warehouse) int { return strings.Compare(a.Name, b.Name) },
	"createdAt": func(a, b *entity.Warehouse) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

func (r *WarehouseRepository) Create(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.warehouses {
		if e.Code == w.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.warehouseSeq++
	w.ID = r.s.warehouseSeq
	c := *w
	r.s.warehouses[w.ID] = &c
	return nil
}

func (r *WarehouseRepository) GetByID(_ context.Context, id int64) (*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if w, ok := r.s.warehouses[id]; ok {
		c := *w
		return &c, nil
	}
	return nil, nil
}

func (r *WarehouseRepository) GetByCode(_ context.Context, code string) (*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, w := range r.s.warehouses {
		if w.Code == code {
			c := *w
			return &c, nil
		}
	}
	return nil, nil
}

func (r *WarehouseRepository) Update(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[w.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *w
	r.s.warehouses[w.ID] = &c
	return nil
}

func (r *WarehouseRepository) List(_ context.Context, activeOnly bool, q repository.ListQuery) ([]*entity.Warehouse, int64, error) {
	r.s.mu.RLock()
	out := make([]*entity.Warehouse, 0, len(r.s.warehouses))
	for _, w := range r.s.warehouses {
		if activeOnly && !w.Active {
			continue
		}
		c := *w
		out = append(out, &c)
	}
	r.s.mu.RUnlock()
	sortBy(out, q, warehouseOrder, func(w *entity.Warehouse) int64 { return w.ID })
	return paginate(out, q), int64(len(out)), nil
}

func (r *WarehouseRepository) CountActive(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, w := range r.s.warehouses {
		if w.Active {
			n++
		}
	}
	return n, nil
}

// UserRepository usuarios en memoria.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.users {
		if strings.EqualFold(e.Username, u.Username) || strings.EqualFold(e.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.userSeq++
	u.ID = r.s.userSeq
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}
