package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// StockLevelRepository niveles de stock. Con tx != nil lee y escribe a través de la unidad.
type StockLevelRepository struct {
	s  *Store
	tx *txState
}

func (r *StockLevelRepository) Get(_ context.Context, productID, warehouseID int64) (*entity.StockLevel, error) {
	key := entity.StockKey{ProductID: productID, WarehouseID: warehouseID}
	if r.tx != nil {
		if l, ok := r.tx.levels[key]; ok {
			return l.Clone(), nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if l, ok := r.s.levels[key]; ok {
		return l.Clone(), nil
	}
	return nil, nil
}

func (r *StockLevelRepository) GetForUpdate(ctx context.Context, productID, warehouseID int64) (*entity.StockLevel, error) {
	if r.tx == nil {
		return nil, errNoUnit
	}
	if err := r.tx.lock(ctx, stockLockKey(productID, warehouseID)); err != nil {
		return nil, err
	}
	key := entity.StockKey{ProductID: productID, WarehouseID: warehouseID}
	if l, ok := r.tx.levels[key]; ok {
		return l.Clone(), nil
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l, ok := r.s.levels[key]; ok {
		return l.Clone(), nil
	}
	if _, ok := r.s.products[productID]; !ok {
		return nil, domain.UnknownReference("producto", productID)
	}
	if _, ok := r.s.warehouses[warehouseID]; !ok {
		return nil, domain.UnknownReference("bodega", warehouseID)
	}
	// El id se consume aunque la unidad se descarte, como una secuencia de postgres.
	r.s.levelSeq++
	l := &entity.StockLevel{ID: r.s.levelSeq, ProductID: productID, WarehouseID: warehouseID, LastUpdated: time.Now().UTC()}
	r.tx.levels[key] = l
	return l.Clone(), nil
}

func (r *StockLevelRepository) Save(_ context.Context, level *entity.StockLevel) error {
	if level.Quantity < 0 {
		return domain.InvalidArgument("cantidad negativa para %d/%d", level.ProductID, level.WarehouseID)
	}
	if r.tx != nil {
		r.tx.levels[level.Key()] = level.Clone()
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if level.ID == 0 {
		r.s.levelSeq++
		level.ID = r.s.levelSeq
	}
	r.s.levels[level.Key()] = level.Clone()
	return nil
}

func (r *StockLevelRepository) ListByProduct(_ context.Context, productID int64) ([]*entity.StockLevel, error) {
	return r.s.levelsWhere(func(l *entity.StockLevel) bool { return l.ProductID == productID }), nil
}

func (r *StockLevelRepository) ListByWarehouse(_ context.Context, warehouseID int64) ([]*entity.StockLevel, error) {
	return r.s.levelsWhere(func(l *entity.StockLevel) bool { return l.WarehouseID == warehouseID }), nil
}

func (r *StockLevelRepository) ListAll(_ context.Context) ([]*entity.StockLevel, error) {
	return r.s.levelsWhere(func(*entity.StockLevel) bool { return true }), nil
}

func (r *StockLevelRepository) ListLow(_ context.Context) ([]*entity.StockLevel, error) {
	return r.s.levelsWhere((*entity.StockLevel).IsLow), nil
}

// levelsWhere copia los niveles confirmados que cumplen keep, ordenados por (bodega, producto).
func (s *Store) levelsWhere(keep func(*entity.StockLevel) bool) []*entity.StockLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.StockLevel, 0)
	for _, l := range s.levels {
		if keep(l) {
			out = append(out, l.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WarehouseID != out[j].WarehouseID {
			return out[i].WarehouseID < out[j].WarehouseID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

// StockMovementRepository libro de movimientos, solo anexar.
type StockMovementRepository struct {
	s  *Store
	tx *txState
}

func (r *StockMovementRepository) Append(_ context.Context, m *entity.StockMovement) error {
	if !m.Type.Valid() {
		return domain.InvalidArgument("tipo de movimiento desconocido %q", m.Type)
	}
	if r.tx != nil {
		r.tx.movs = append(r.tx.movs, m)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movementSeq++
	m.ID = r.s.movementSeq
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r *StockMovementRepository) ListByProduct(_ context.Context, productID int64, from, to time.Time) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.StockMovement, 0)
	for _, m := range r.s.movements {
		if m.ProductID == productID && !m.CreatedAt.Before(from) && m.CreatedAt.Before(to) {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *StockMovementRepository) List(_ context.Context, f repository.MovementFilter, q repository.ListQuery) ([]*entity.StockMovement, int64, error) {
	r.s.mu.RLock()
	matched := make([]*entity.StockMovement, 0)
	for _, m := range r.s.movements {
		if movementMatches(m, f) {
			c := *m
			matched = append(matched, &c)
		}
	}
	r.s.mu.RUnlock()

	slices.Reverse(matched)
	return paginate(matched, q), int64(len(matched)), nil
}

func movementMatches(m *entity.StockMovement, f repository.MovementFilter) bool {
	switch {
	case f.ProductID != nil && m.ProductID != *f.ProductID:
		return false
	case f.WarehouseID != nil && m.WarehouseID != *f.WarehouseID:
		return false
	case f.Type != nil && m.Type != *f.Type:
		return false
	case f.From != nil && m.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && !m.CreatedAt.Before(*f.To):
		return false
	}
	return true
}
